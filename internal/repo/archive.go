package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dsaps/internal/model"
)

// ArchiveRepository — доступ к сообществам, коллекциям, элементам и файлам.
type ArchiveRepository interface {
	// NextHandle атомарно выдаёт следующий handle вида <prefix>/<n>.
	NextHandle(ctx context.Context, prefix string) (string, error)

	CreateCommunity(ctx context.Context, c *model.Community) error
	CreateCollection(ctx context.Context, c *model.Collection) error
	// CreateItem сохраняет элемент вместе с метаданными.
	CreateItem(ctx context.Context, it *model.Item) error
	CreateBitstream(ctx context.Context, b *model.Bitstream) error

	GetCommunity(ctx context.Context, uuid string, withChildren bool) (*model.Community, error)
	GetCollection(ctx context.Context, uuid string, withChildren bool) (*model.Collection, error)
	GetItem(ctx context.Context, uuid string, withChildren bool) (*model.Item, error)
	GetItemMetadata(ctx context.Context, uuid string) ([]model.MetadataValue, error)

	// FindByHandle возвращает тип объекта и его UUID.
	FindByHandle(ctx context.Context, handle string) (objType, uuid string, err error)

	// ListItems возвращает элементы (с метаданными) в порядке создания,
	// опционально только из указанных коллекций.
	ListItems(ctx context.Context, collections []string) ([]model.Item, error)
}

type archiveRepo struct {
	db *gorm.DB
}

// NewArchiveRepository создаёт реализацию ArchiveRepository.
func NewArchiveRepository(db *gorm.DB) ArchiveRepository {
	return &archiveRepo{db: db}
}

func (r *archiveRepo) NextHandle(ctx context.Context, prefix string) (string, error) {
	var cnt model.HandleCounter
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := model.HandleCounter{Prefix: prefix}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.HandleCounter{}).Where("prefix = ?", prefix).
			UpdateColumn("counter", gorm.Expr("counter + 1")).Error; err != nil {
			return err
		}
		return tx.Where("prefix = ?", prefix).First(&cnt).Error
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%d", prefix, cnt.Counter), nil
}

func (r *archiveRepo) CreateCommunity(ctx context.Context, c *model.Community) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *archiveRepo) CreateCollection(ctx context.Context, c *model.Collection) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *archiveRepo) CreateItem(ctx context.Context, it *model.Item) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(it).Error; err != nil {
			return err
		}
		for i := range it.Metadata {
			it.Metadata[i].ItemUUID = it.UUID
			it.Metadata[i].Place = i
		}
		if len(it.Metadata) == 0 {
			return nil
		}
		return tx.Create(&it.Metadata).Error
	})
}

func (r *archiveRepo) CreateBitstream(ctx context.Context, b *model.Bitstream) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func orderedMetadata(db *gorm.DB) *gorm.DB {
	return db.Order("place ASC")
}

func (r *archiveRepo) GetCommunity(ctx context.Context, uuid string, withChildren bool) (*model.Community, error) {
	var c model.Community
	q := r.db.WithContext(ctx)
	if withChildren {
		q = q.Preload("Collections", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") })
	}
	if err := q.Where("uuid = ?", uuid).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *archiveRepo) GetCollection(ctx context.Context, uuid string, withChildren bool) (*model.Collection, error) {
	var c model.Collection
	q := r.db.WithContext(ctx)
	if withChildren {
		q = q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") })
	}
	if err := q.Where("uuid = ?", uuid).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *archiveRepo) GetItem(ctx context.Context, uuid string, withChildren bool) (*model.Item, error) {
	var it model.Item
	q := r.db.WithContext(ctx)
	if withChildren {
		q = q.Preload("Metadata", orderedMetadata).
			Preload("Bitstreams", func(db *gorm.DB) *gorm.DB {
				return db.Select("uuid", "item_uuid", "name", "size_bytes", "created_at").Order("created_at ASC")
			})
	}
	if err := q.Where("uuid = ?", uuid).First(&it).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *archiveRepo) GetItemMetadata(ctx context.Context, uuid string) ([]model.MetadataValue, error) {
	if _, err := r.GetItem(ctx, uuid, false); err != nil {
		return nil, err
	}
	md := []model.MetadataValue{}
	err := r.db.WithContext(ctx).Where("item_uuid = ?", uuid).Order("place ASC").Find(&md).Error
	return md, err
}

// FindByHandle ищет handle по всем типам объектов; gorm.ErrRecordNotFound если не найден.
func (r *archiveRepo) FindByHandle(ctx context.Context, handle string) (string, string, error) {
	db := r.db.WithContext(ctx)
	var comm model.Community
	if err := db.Select("uuid").Where("handle = ?", handle).Limit(1).Find(&comm).Error; err != nil {
		return "", "", err
	}
	if comm.UUID != "" {
		return model.TypeCommunity, comm.UUID, nil
	}
	var coll model.Collection
	if err := db.Select("uuid").Where("handle = ?", handle).Limit(1).Find(&coll).Error; err != nil {
		return "", "", err
	}
	if coll.UUID != "" {
		return model.TypeCollection, coll.UUID, nil
	}
	var it model.Item
	if err := db.Select("uuid").Where("handle = ?", handle).Limit(1).Find(&it).Error; err != nil {
		return "", "", err
	}
	if it.UUID != "" {
		return model.TypeItem, it.UUID, nil
	}
	return "", "", gorm.ErrRecordNotFound
}

func (r *archiveRepo) ListItems(ctx context.Context, collections []string) ([]model.Item, error) {
	items := []model.Item{}
	q := r.db.WithContext(ctx).Preload("Metadata", orderedMetadata).Order("created_at ASC, uuid ASC")
	if len(collections) > 0 {
		q = q.Where("collection_uuid IN ?", collections)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
