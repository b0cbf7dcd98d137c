package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ResponseWriter records the status code written by a handler
type ResponseWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *ResponseWriter) WriteHeader(code int) {
	if w.written {
		return
	}
	w.status = code
	w.written = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Status returns the written status code, 200 if nothing was written yet
func (w *ResponseWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// Written reports whether the header was sent
func (w *ResponseWriter) Written() bool {
	return w.written
}

// Unwrap exposes the underlying writer to http.ResponseController
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Context carries one request through handlers and middleware
type Context struct {
	Request *http.Request
	Writer  *ResponseWriter
	values  map[string]any
}

func newContext(w http.ResponseWriter, req *http.Request) *Context {
	return &Context{
		Request: req,
		Writer:  &ResponseWriter{ResponseWriter: w},
		values:  make(map[string]any),
	}
}

// NewContext builds a context outside the router, for tests and adapters
func NewContext(w http.ResponseWriter, req *http.Request) *Context {
	return newContext(w, req)
}

// Param returns a path parameter
func (c *Context) Param(name string) string {
	value := chi.URLParam(c.Request, name)
	if value == "" {
		value = chi.URLParam(c.Request, "*")
	}
	return value
}

// Query returns a query string parameter
func (c *Context) Query(name string) string {
	return c.Request.URL.Query().Get(name)
}

// DefaultQuery returns a query parameter or fallback when absent
func (c *Context) DefaultQuery(name, fallback string) string {
	if value := c.Query(name); value != "" {
		return value
	}
	return fallback
}

// Set stores a request scoped value
func (c *Context) Set(key string, value any) {
	c.values[key] = value
}

// Get reads a request scoped value
func (c *Context) Get(key string) (any, bool) {
	value, ok := c.values[key]
	return value, ok
}

// JSON writes v as a JSON body
func (c *Context) JSON(status int, v any) error {
	c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.Writer.WriteHeader(status)
	if v == nil {
		return nil
	}
	return json.NewEncoder(c.Writer).Encode(v)
}

// Status writes a bare status code
func (c *Context) Status(status int) {
	c.Writer.WriteHeader(status)
}

// Redirect sends a redirect
func (c *Context) Redirect(status int, location string) error {
	http.Redirect(c.Writer, c.Request, location, status)
	return nil
}

// ShouldBindJSON decodes the body into v and validates its binding tags
func (c *Context) ShouldBindJSON(v any) error {
	if c.Request.Body == nil {
		return errors.New("request body is empty")
	}
	decoder := json.NewDecoder(c.Request.Body)
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return Validate(v)
}

// FormFile returns the uploaded file for field
func (c *Context) FormFile(field string) (*multipart.FileHeader, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	_, header, err := c.Request.FormFile(field)
	return header, err
}

// ClientIP returns the originating client address
func (c *Context) ClientIP() string {
	if forwarded := c.Request.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := c.Request.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}

// Validate checks the binding tags of a struct
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			messages := make([]string, 0, len(fieldErrors))
			for _, fe := range fieldErrors {
				messages = append(messages, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
			}
			return errors.New(strings.Join(messages, "; "))
		}
		return err
	}
	return nil
}
