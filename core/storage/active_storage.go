package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Attachable is a model that can own attachments
type Attachable interface {
	GetId() uint
	GetModelName() string
}

// AttachmentConfig restricts what may be attached to a model field
type AttachmentConfig struct {
	Field             string
	Path              string
	AllowedExtensions []string
	MaxFileSize       int64
	Multiple          bool
}

// Attachment is a stored file owned by a model
type Attachment struct {
	Id        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	ModelType string         `json:"model_type" gorm:"index:idx_attachment_owner"`
	ModelId   uint           `json:"model_id" gorm:"index:idx_attachment_owner"`
	Field     string         `json:"field" gorm:"index:idx_attachment_owner"`
	Filename  string         `json:"filename"`
	Path      string         `json:"path"`
	Size      int64          `json:"size"`
	URL       string         `json:"url"`
}

// TableName returns the table name for the Attachment model
func (Attachment) TableName() string {
	return "attachments"
}

// ActiveStorage attaches files to models and keeps the attachments table in sync
type ActiveStorage struct {
	db             *gorm.DB
	provider       Provider
	configs        map[string]map[string]AttachmentConfig
	imageProcessor *ImageProcessor
}

// NewActiveStorage builds the provider from config and migrates the attachments table
func NewActiveStorage(db *gorm.DB, config Config) (*ActiveStorage, error) {
	provider, err := newProvider(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage provider: %w", err)
	}
	return NewActiveStorageWithProvider(db, provider)
}

// NewActiveStorageWithProvider wires an explicit provider
func NewActiveStorageWithProvider(db *gorm.DB, provider Provider) (*ActiveStorage, error) {
	if err := db.AutoMigrate(&Attachment{}); err != nil {
		return nil, fmt.Errorf("failed to migrate attachments table: %w", err)
	}
	return &ActiveStorage{
		db:             db,
		provider:       provider,
		configs:        make(map[string]map[string]AttachmentConfig),
		imageProcessor: NewImageProcessor(85, 512),
	}, nil
}

func newProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "", "local":
		storagePath := config.Path
		if !filepath.IsAbs(storagePath) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get working directory: %w", err)
			}
			storagePath = filepath.Join(cwd, storagePath)
		}
		return NewLocalProvider(LocalConfig{BasePath: storagePath, BaseURL: config.BaseURL})
	case "s3":
		return NewS3Provider(S3Config{
			AccessKeyID:     config.APIKey,
			AccessKeySecret: config.APISecret,
			Endpoint:        config.Endpoint,
			Bucket:          config.Bucket,
			BaseURL:         config.BaseURL,
			CDN:             config.CDN,
			Region:          config.Region,
		})
	case "r2":
		return NewR2Provider(config.AccountID, S3Config{
			AccessKeyID:     config.APIKey,
			AccessKeySecret: config.APISecret,
			Bucket:          config.Bucket,
			BaseURL:         config.BaseURL,
			CDN:             config.CDN,
		})
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", config.Provider)
	}
}

// RegisterAttachment declares an attachable field of a model
func (as *ActiveStorage) RegisterAttachment(modelName string, config AttachmentConfig) {
	if as.configs[modelName] == nil {
		as.configs[modelName] = make(map[string]AttachmentConfig)
	}
	as.configs[modelName][config.Field] = config
}

// Attach stores file for model.field, replacing any previous single attachment
func (as *ActiveStorage) Attach(ctx context.Context, model Attachable, field string, file *multipart.FileHeader) (*Attachment, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, file.Size+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return as.AttachBytes(ctx, model, field, file.Filename, data)
}

// AttachBytes stores data as filename for model.field
func (as *ActiveStorage) AttachBytes(ctx context.Context, model Attachable, field, filename string, data []byte) (*Attachment, error) {
	config, err := as.getConfig(model.GetModelName(), field)
	if err != nil {
		return nil, err
	}
	if err := validateFile(filename, int64(len(data)), config); err != nil {
		return nil, err
	}

	if as.imageProcessor != nil && as.imageProcessor.IsImageFile(filename) {
		data, filename, err = as.imageProcessor.ConvertToWebPBytes(data, filename)
		if err != nil {
			return nil, err
		}
	}

	key := objectKey(config.Path, model.GetModelName(), field, generateUniqueFilename(filename))
	if err := as.provider.Put(ctx, key, data, contentTypeFor(filename)); err != nil {
		return nil, err
	}

	attachment := &Attachment{
		ModelType: model.GetModelName(),
		ModelId:   model.GetId(),
		Field:     field,
		Filename:  filename,
		Path:      key,
		Size:      int64(len(data)),
		URL:       as.provider.URL(key),
	}

	var previous []Attachment
	err = as.db.Transaction(func(tx *gorm.DB) error {
		if !config.Multiple {
			if err := tx.Where("model_type = ? AND model_id = ? AND field = ?",
				attachment.ModelType, attachment.ModelId, field).Find(&previous).Error; err != nil {
				return err
			}
			if len(previous) > 0 {
				if err := tx.Delete(&previous).Error; err != nil {
					return err
				}
			}
		}
		return tx.Create(attachment).Error
	})
	if err != nil {
		_ = as.provider.Delete(ctx, key)
		return nil, err
	}

	for _, old := range previous {
		_ = as.provider.Delete(ctx, old.Path)
	}
	return attachment, nil
}

// Delete removes the stored file and its record
func (as *ActiveStorage) Delete(ctx context.Context, attachment *Attachment) error {
	if err := as.provider.Delete(ctx, attachment.Path); err != nil {
		return err
	}
	return as.db.Delete(attachment).Error
}

// LoadAttachment returns the single attachment of model.field
func (as *ActiveStorage) LoadAttachment(model Attachable, field string) (*Attachment, error) {
	var attachment Attachment
	err := as.db.Where("model_type = ? AND model_id = ? AND field = ?",
		model.GetModelName(), model.GetId(), field).Order("id DESC").First(&attachment).Error
	if err != nil {
		return nil, err
	}
	attachment.URL = as.provider.URL(attachment.Path)
	return &attachment, nil
}

// GetProvider returns the storage provider
func (as *ActiveStorage) GetProvider() Provider {
	return as.provider
}

func (as *ActiveStorage) getConfig(modelName, field string) (AttachmentConfig, error) {
	modelConfigs, ok := as.configs[modelName]
	if !ok {
		return AttachmentConfig{}, fmt.Errorf("no attachment config found for model %s", modelName)
	}
	config, ok := modelConfigs[field]
	if !ok {
		return AttachmentConfig{}, fmt.Errorf("no attachment config found for field %s in model %s", field, modelName)
	}
	return config, nil
}

func validateFile(filename string, size int64, config AttachmentConfig) error {
	if config.MaxFileSize > 0 && size > config.MaxFileSize {
		return fmt.Errorf("file size exceeds maximum allowed size of %d bytes", config.MaxFileSize)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if len(config.AllowedExtensions) > 0 && !slices.Contains(config.AllowedExtensions, ext) {
		return fmt.Errorf("file extension %s is not allowed", ext)
	}
	return nil
}
