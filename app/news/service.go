package news

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"intranet/app/models"
	"intranet/core/app/search"
	"intranet/core/emitter"
	"intranet/core/logger"
	"intranet/core/storage"
	"intranet/core/types"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const (
	CreatePostEvent  = "news.create"
	UpdatePostEvent  = "news.update"
	DeletePostEvent  = "news.delete"
	PublishPostEvent = "news.published"

	excerptLength = 160
	coverField    = "cover_image"
)

var ErrPostNotFound = errors.New("post not found")

type PostService struct {
	DB      *gorm.DB
	Emitter *emitter.Emitter
	Storage *storage.ActiveStorage
	Logger  logger.Logger
	now     func() time.Time
}

func NewPostService(db *gorm.DB, emitter *emitter.Emitter, storage *storage.ActiveStorage, logger logger.Logger) *PostService {
	return &PostService{
		DB:      db,
		Logger:  logger,
		Emitter: emitter,
		Storage: storage,
		now:     time.Now,
	}
}

func (s *PostService) Create(req *models.CreatePostRequest, authorId uint) (*models.Post, error) {
	item := &models.Post{
		Title:       req.Title,
		Excerpt:     req.Excerpt,
		Content:     req.Content,
		Category:    req.Category,
		AuthorId:    authorId,
		Published:   req.Published,
		IsPinned:    req.IsPinned,
		PublishedAt: req.PublishedAt,
	}
	if item.Excerpt == "" {
		item.Excerpt = excerpt(item.Content, excerptLength)
	}
	if item.Published && item.PublishedAt.IsZero() {
		item.PublishedAt = types.DateTime{Time: s.now()}
	}

	base := req.Slug
	if base == "" {
		base = req.Title
	}
	uniqueSlug, err := s.uniqueSlug(base)
	if err != nil {
		return nil, err
	}
	item.Slug = uniqueSlug

	if err := s.DB.Create(item).Error; err != nil {
		s.Logger.Error("failed to create post", logger.Err(err))
		return nil, err
	}

	s.Emitter.Emit(CreatePostEvent, item)
	if item.Published {
		s.Emitter.Emit(PublishPostEvent, item)
	}
	return item, nil
}

func (s *PostService) Update(id uint, req *models.UpdatePostRequest) (*models.Post, error) {
	item, err := s.GetById(id)
	if err != nil {
		return nil, err
	}
	wasPublished := item.Published

	if req.Title != "" {
		item.Title = req.Title
	}
	if req.Excerpt != "" {
		item.Excerpt = req.Excerpt
	}
	if req.Content != "" {
		item.Content = req.Content
	}
	if req.Category != "" {
		item.Category = req.Category
	}
	if req.Published != nil {
		item.Published = *req.Published
	}
	if req.IsPinned != nil {
		item.IsPinned = *req.IsPinned
	}
	if !req.PublishedAt.IsZero() {
		item.PublishedAt = req.PublishedAt
	}
	if item.Published && item.PublishedAt.IsZero() {
		item.PublishedAt = types.DateTime{Time: s.now()}
	}

	if err := s.DB.Save(item).Error; err != nil {
		s.Logger.Error("failed to update post", logger.Uint("id", id), logger.Err(err))
		return nil, err
	}

	s.Emitter.Emit(UpdatePostEvent, item)
	if item.Published && !wasPublished {
		s.Emitter.Emit(PublishPostEvent, item)
	}
	return item, nil
}

func (s *PostService) Delete(id uint) error {
	item, err := s.GetById(id)
	if err != nil {
		return err
	}
	if item.CoverImage != nil && s.Storage != nil {
		if err := s.Storage.Delete(context.Background(), item.CoverImage); err != nil {
			s.Logger.Error("failed to delete cover image", logger.Uint("id", id), logger.Err(err))
			return err
		}
	}
	if err := s.DB.Delete(item).Error; err != nil {
		s.Logger.Error("failed to delete post", logger.Uint("id", id), logger.Err(err))
		return err
	}
	s.Emitter.Emit(DeletePostEvent, item)
	return nil
}

func (s *PostService) GetById(id uint) (*models.Post, error) {
	item := &models.Post{}
	if err := s.DB.First(item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	s.loadCover(item)
	return item, nil
}

func (s *PostService) GetBySlug(postSlug string) (*models.Post, error) {
	item := &models.Post{}
	if err := s.DB.Where("slug = ?", postSlug).First(item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	s.loadCover(item)
	return item, nil
}

// GetAll lists published posts, pinned first then newest
func (s *PostService) GetAll(page *int, limit *int, category string) (*types.PaginatedResponse, error) {
	p, l := types.Paginate(page, limit)

	query := s.DB.Model(&models.Post{}).Where("published = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.Logger.Error("failed to count posts", logger.Err(err))
		return nil, err
	}

	var items []*models.Post
	if err := query.Order("is_pinned DESC, published_at DESC, id DESC").
		Offset((p - 1) * l).Limit(l).Find(&items).Error; err != nil {
		s.Logger.Error("failed to get posts", logger.Err(err))
		return nil, err
	}

	responses := make([]*models.PostListResponse, len(items))
	for i, item := range items {
		s.loadCover(item)
		responses[i] = item.ToListResponse()
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

// UploadCover attaches a cover image to a post
func (s *PostService) UploadCover(ctx context.Context, id uint, file *multipart.FileHeader) (*models.Post, error) {
	if s.Storage == nil {
		return nil, errors.New("storage is not configured")
	}
	item, err := s.GetById(id)
	if err != nil {
		return nil, err
	}
	attachment, err := s.Storage.Attach(ctx, item, coverField, file)
	if err != nil {
		s.Logger.Error("failed to attach cover image", logger.Uint("id", id), logger.Err(err))
		return nil, err
	}
	item.CoverImage = attachment
	return item, nil
}

// Records exposes published posts to the dashboard search
func (s *PostService) Records() ([]search.Record, error) {
	var items []models.Post
	if err := s.DB.Where("published = ?", true).Order("published_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	records := make([]search.Record, len(items))
	for i, item := range items {
		category := item.Category
		if category == "" {
			category = "News"
		}
		records[i] = search.Record{
			ID:          strconv.FormatUint(uint64(item.Id), 10),
			Title:       item.Title,
			Description: item.Excerpt,
			Content:     item.Content,
			Type:        search.TypeNews,
			Category:    category,
			Widget:      "news",
			Metadata: map[string]any{
				"slug":      item.Slug,
				"author_id": item.AuthorId,
				"date":      item.PublishedAt.Time,
				"pinned":    item.IsPinned,
			},
		}
	}
	return records, nil
}

func (s *PostService) loadCover(item *models.Post) {
	if s.Storage == nil {
		return
	}
	if attachment, err := s.Storage.LoadAttachment(item, coverField); err == nil {
		item.CoverImage = attachment
	}
}

// uniqueSlug slugifies base and appends -2, -3, ... until no post uses it
func (s *PostService) uniqueSlug(base string) (string, error) {
	candidate := slug.Make(base)
	if candidate == "" {
		candidate = "post"
	}
	root := candidate
	for n := 2; ; n++ {
		var count int64
		if err := s.DB.Unscoped().Model(&models.Post{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", root, n)
	}
}

// excerpt cuts content at the last word boundary before limit runes
func excerpt(content string, limit int) string {
	content = strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(content) <= limit {
		return content
	}
	runes := []rune(content)[:limit]
	cut := string(runes)
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, ".,;:") + "…"
}
