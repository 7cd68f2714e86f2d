package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"dsaps/internal/model"
	"dsaps/internal/repo"
)

// ErrNotFound — объект не найден.
var ErrNotFound = errors.New("not found")

// ErrTooLarge — файл превышает допустимый размер.
var ErrTooLarge = errors.New("bitstream too large")

// ErrInvalid — запрос не прошёл проверку.
var ErrInvalid = errors.New("invalid request")

// TitleKey задаёт имя элемента при создании.
const TitleKey = "dc.title"

// ArchiveService — бизнес-логика стаба DSpace: дерево объектов, handle, поиск.
type ArchiveService struct {
	repo         repo.ArchiveRepository
	handlePrefix string
	maxBitstream int64
	logger       *zap.SugaredLogger
}

// NewArchiveService создаёт сервис. maxBitstream <= 0 снимает ограничение размера.
func NewArchiveService(r repo.ArchiveRepository, handlePrefix string, maxBitstream int64, logger *zap.SugaredLogger) *ArchiveService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ArchiveService{repo: r, handlePrefix: handlePrefix, maxBitstream: maxBitstream, logger: logger}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// CreateCommunity создаёт сообщество; parent может быть пустым.
func (s *ArchiveService) CreateCommunity(ctx context.Context, name, parent string) (*model.Community, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	var parentPtr *string
	if parent != "" {
		if _, err := s.repo.GetCommunity(ctx, parent, false); err != nil {
			return nil, notFound(err)
		}
		parentPtr = &parent
	}
	handle, err := s.repo.NextHandle(ctx, s.handlePrefix)
	if err != nil {
		return nil, err
	}
	c := &model.Community{UUID: uuid.NewString(), Name: name, Handle: handle, ParentUUID: parentPtr}
	if err := s.repo.CreateCommunity(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Infow("Community created", "uuid", c.UUID, "handle", handle)
	return c, nil
}

// CreateCollection создаёт коллекцию в сообществе.
func (s *ArchiveService) CreateCollection(ctx context.Context, communityID, name string) (*model.Collection, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if _, err := s.repo.GetCommunity(ctx, communityID, false); err != nil {
		return nil, notFound(err)
	}
	handle, err := s.repo.NextHandle(ctx, s.handlePrefix)
	if err != nil {
		return nil, err
	}
	c := &model.Collection{UUID: uuid.NewString(), Name: name, Handle: handle, CommunityUUID: communityID}
	if err := s.repo.CreateCollection(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Infow("Collection created", "uuid", c.UUID, "handle", handle, "community", communityID)
	return c, nil
}

// CreateItem создаёт элемент с метаданными в порядке запроса.
func (s *ArchiveService) CreateItem(ctx context.Context, collectionID string, md []model.MetadataValue) (*model.Item, error) {
	if _, err := s.repo.GetCollection(ctx, collectionID, false); err != nil {
		return nil, notFound(err)
	}
	for _, m := range md {
		if m.Key == "" {
			return nil, fmt.Errorf("%w: metadata key is required", ErrInvalid)
		}
	}
	handle, err := s.repo.NextHandle(ctx, s.handlePrefix)
	if err != nil {
		return nil, err
	}
	it := &model.Item{UUID: uuid.NewString(), Handle: handle, CollectionUUID: collectionID, Metadata: md}
	for _, m := range md {
		if m.Key == TitleKey {
			it.Name = m.Value
			break
		}
	}
	if err := s.repo.CreateItem(ctx, it); err != nil {
		return nil, err
	}
	s.logger.Infow("Item created", "uuid", it.UUID, "handle", handle, "collection", collectionID, "metadata", len(md))
	return it, nil
}

// AddBitstream сохраняет файл элемента.
func (s *ArchiveService) AddBitstream(ctx context.Context, itemID, name string, content []byte) (*model.Bitstream, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if s.maxBitstream > 0 && int64(len(content)) > s.maxBitstream {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, len(content), s.maxBitstream)
	}
	if _, err := s.repo.GetItem(ctx, itemID, false); err != nil {
		return nil, notFound(err)
	}
	b := &model.Bitstream{
		UUID: uuid.NewString(), ItemUUID: itemID, Name: name,
		SizeBytes: int64(len(content)), Content: content,
	}
	if err := s.repo.CreateBitstream(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Infow("Bitstream stored", "uuid", b.UUID, "item", itemID, "name", name, "size", b.SizeBytes)
	return b, nil
}

// ResolveHandle возвращает тип и UUID объекта по handle.
func (s *ArchiveService) ResolveHandle(ctx context.Context, handle string) (string, string, error) {
	typ, id, err := s.repo.FindByHandle(ctx, strings.Trim(handle, "/"))
	return typ, id, notFound(err)
}

func (s *ArchiveService) Community(ctx context.Context, id string, expand bool) (*model.Community, error) {
	c, err := s.repo.GetCommunity(ctx, id, expand)
	return c, notFound(err)
}

func (s *ArchiveService) Collection(ctx context.Context, id string, expand bool) (*model.Collection, error) {
	c, err := s.repo.GetCollection(ctx, id, expand)
	return c, notFound(err)
}

func (s *ArchiveService) Item(ctx context.Context, id string, expand bool) (*model.Item, error) {
	it, err := s.repo.GetItem(ctx, id, expand)
	return it, notFound(err)
}

func (s *ArchiveService) ItemMetadata(ctx context.Context, id string) ([]model.MetadataValue, error) {
	md, err := s.repo.GetItemMetadata(ctx, id)
	return md, notFound(err)
}

// FilterItems возвращает страницу элементов, удовлетворяющих фильтру.
func (s *ArchiveService) FilterItems(ctx context.Context, f Filter) ([]model.Item, error) {
	if err := f.Compile(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	items, err := s.repo.ListItems(ctx, f.Collections)
	if err != nil {
		return nil, err
	}
	matched := []model.Item{}
	skipped := 0
	for _, it := range items {
		if !f.Matches(it) {
			continue
		}
		if skipped < f.Offset {
			skipped++
			continue
		}
		if f.Limit > 0 && len(matched) >= f.Limit {
			break
		}
		matched = append(matched, it)
	}
	return matched, nil
}
