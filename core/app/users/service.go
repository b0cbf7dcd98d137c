package users

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"intranet/core/app/search"
	"intranet/core/emitter"
	"intranet/core/logger"
	"intranet/core/router/middleware"
	"intranet/core/storage"
	"intranet/core/types"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	CreateUserEvent = "users.create"
	UpdateUserEvent = "users.update"
	LoginEvent      = "users.login"

	avatarField = "avatar"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrStorageDisabled    = errors.New("storage is not configured")
)

// TokenConfig signs login tokens
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

type UserService struct {
	db            *gorm.DB
	emitter       *emitter.Emitter
	activeStorage *storage.ActiveStorage
	logger        logger.Logger
	tokens        TokenConfig
	now           func() time.Time
}

func NewUserService(db *gorm.DB, emitter *emitter.Emitter, activeStorage *storage.ActiveStorage, logger logger.Logger, tokens TokenConfig) *UserService {
	if db == nil {
		panic("db is required")
	}
	if logger == nil {
		panic("logger is required")
	}

	if activeStorage != nil {
		activeStorage.RegisterAttachment("users", storage.AttachmentConfig{
			Field:             avatarField,
			Path:              "avatars",
			AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic"},
			MaxFileSize:       5 << 20, // 5MB
			Multiple:          false,
		})
	}

	return &UserService{
		db:            db,
		emitter:       emitter,
		activeStorage: activeStorage,
		logger:        logger,
		tokens:        tokens,
		now:           time.Now,
	}
}

// Register creates an account
func (s *UserService) Register(req *RegisterRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := s.db.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", logger.Err(err))
		return nil, err
	}

	item := &User{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      email,
		Phone:      req.Phone,
		Department: req.Department,
		JobTitle:   req.JobTitle,
		Location:   req.Location,
		Password:   string(hashedPassword),
	}
	if err := s.db.Create(item).Error; err != nil {
		s.logger.Error("failed to create user", logger.Err(err))
		return nil, err
	}

	s.emitter.Emit(CreateUserEvent, item)
	return item, nil
}

// Login checks credentials and issues a bearer token
func (s *UserService) Login(req *LoginRequest) (*LoginResponse, error) {
	var user User
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.logger.Info("invalid password provided", logger.Uint("user_id", user.Id))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := middleware.IssueToken(s.tokens.Secret, s.tokens.TTL, user.Id, user.Email)
	if err != nil {
		s.logger.Error("failed to issue token", logger.Uint("user_id", user.Id), logger.Err(err))
		return nil, err
	}

	now := s.now()
	user.LastLogin = &now
	if err := s.db.Model(&user).Update("last_login", now).Error; err != nil {
		s.logger.Warn("failed to record last login", logger.Uint("user_id", user.Id), logger.Err(err))
	}
	s.loadAvatar(&user)

	s.emitter.Emit(LoginEvent, &user)
	return &LoginResponse{AccessToken: token, ExpiresAt: expiresAt, User: user.ToResponse()}, nil
}

// GetById gets a user by ID with the avatar loaded
func (s *UserService) GetById(id uint) (*User, error) {
	var user User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("database error while fetching user", logger.Uint("user_id", id), logger.Err(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	s.loadAvatar(&user)
	return &user, nil
}

// UpdateProfile updates the editable profile fields
func (s *UserService) UpdateProfile(id uint, req *UpdateProfileRequest) (*User, error) {
	item, err := s.GetById(id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" {
		item.FirstName = req.FirstName
	}
	if req.LastName != "" {
		item.LastName = req.LastName
	}
	if req.Phone != "" {
		item.Phone = req.Phone
	}
	if req.Department != "" {
		item.Department = req.Department
	}
	if req.JobTitle != "" {
		item.JobTitle = req.JobTitle
	}
	if req.Location != "" {
		item.Location = req.Location
	}

	if err := s.db.Save(item).Error; err != nil {
		s.logger.Error("failed to update user", logger.Uint("user_id", id), logger.Err(err))
		return nil, err
	}

	s.emitter.Emit(UpdateUserEvent, item)
	return item, nil
}

// UpdatePassword updates own password (requires old password verification)
func (s *UserService) UpdatePassword(id uint, req *UpdatePasswordRequest) error {
	var user User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		s.logger.Info("invalid old password provided", logger.Uint("user_id", id))
		return ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		s.logger.Error("failed to save new password", logger.Uint("user_id", id), logger.Err(err))
		return fmt.Errorf("failed to update user password: %w", err)
	}
	return nil
}

// UpdateAvatar replaces the user's avatar
func (s *UserService) UpdateAvatar(ctx context.Context, id uint, avatarFile *multipart.FileHeader) (*User, error) {
	if s.activeStorage == nil {
		return nil, ErrStorageDisabled
	}
	user, err := s.GetById(id)
	if err != nil {
		return nil, err
	}

	// cleanup of the previous file is handled inside Attach
	attachment, err := s.activeStorage.Attach(ctx, user, avatarField, avatarFile)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}
	user.Avatar = attachment

	s.emitter.Emit(UpdateUserEvent, user)
	return user, nil
}

// RemoveAvatar removes the user's avatar
func (s *UserService) RemoveAvatar(ctx context.Context, id uint) (*User, error) {
	user, err := s.GetById(id)
	if err != nil {
		return nil, err
	}
	if user.Avatar != nil {
		if err := s.activeStorage.Delete(ctx, user.Avatar); err != nil {
			s.logger.Error("failed to delete avatar", logger.Uint("user_id", id), logger.Err(err))
			return nil, fmt.Errorf("failed to delete avatar: %w", err)
		}
		user.Avatar = nil
	}
	return user, nil
}

// Directory lists colleagues by last name, filtered by a free-text query and department
func (s *UserService) Directory(page *int, limit *int, query, department string) (*types.PaginatedResponse, error) {
	p, l := types.Paginate(page, limit)

	q := s.db.Model(&User{})
	if department != "" {
		q = q.Where("department = ?", department)
	}
	if query = strings.TrimSpace(query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(job_title) LIKE ?",
			like, like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		s.logger.Error("failed to count users", logger.Err(err))
		return nil, err
	}

	var items []*User
	if err := q.Order("last_name ASC, first_name ASC").Offset((p - 1) * l).Limit(l).Find(&items).Error; err != nil {
		s.logger.Error("failed to get users", logger.Err(err))
		return nil, err
	}

	responses := make([]*UserResponse, len(items))
	for i, item := range items {
		s.loadAvatar(item)
		responses[i] = item.ToResponse()
	}

	return &types.PaginatedResponse{
		Data: responses,
		Pagination: types.Pagination{
			Total:      int(total),
			Page:       p,
			PageSize:   l,
			TotalPages: types.TotalPages(total, l),
		},
	}, nil
}

// DisplayName returns the full name of userId
func (s *UserService) DisplayName(userId uint) (string, bool) {
	var user User
	if err := s.db.Select("id, first_name, last_name, email").First(&user, userId).Error; err != nil {
		return "", false
	}
	return user.FullName(), true
}

// Recipient is a user address for outgoing mail
type Recipient struct {
	Id    uint
	Name  string
	Email string
}

// Recipients resolves the given user ids to mail addresses, skipping unknown ids
func (s *UserService) Recipients(ids []uint) ([]Recipient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []User
	if err := s.db.Select("id, first_name, last_name, email").Where("id IN ?", ids).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	out := make([]Recipient, len(items))
	for i := range items {
		out[i] = Recipient{Id: items[i].Id, Name: items[i].FullName(), Email: items[i].Email}
	}
	return out, nil
}

// Records exposes the directory to the dashboard search
func (s *UserService) Records() ([]search.Record, error) {
	var items []User
	if err := s.db.Order("last_name ASC, first_name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	records := make([]search.Record, len(items))
	for i, item := range items {
		category := item.Department
		if category == "" {
			category = "People"
		}
		records[i] = search.Record{
			ID:          strconv.FormatUint(uint64(item.Id), 10),
			Title:       item.FullName(),
			Description: item.JobTitle,
			Content:     strings.TrimSpace(item.Email + " " + item.Phone + " " + item.Location),
			Type:        search.TypePerson,
			Category:    category,
			Widget:      "directory",
			Metadata: map[string]any{
				"email":     item.Email,
				"createdAt": item.CreatedAt,
			},
		}
	}
	return records, nil
}

func (s *UserService) loadAvatar(user *User) {
	if s.activeStorage == nil {
		return
	}
	if attachment, err := s.activeStorage.LoadAttachment(user, avatarField); err == nil {
		user.Avatar = attachment
	}
}
