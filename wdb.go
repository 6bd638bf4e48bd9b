package assetdiscovery

import (
	"encoding/json"
	"os"
	"path"

	"github.com/everFinance/assetdiscovery/schema"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const (
	sqliteName = "events.db"

	DefaultEventPageSize = 50
	MaxEventPageSize     = 500
)

// Wdb keeps the queryable event history.
type Wdb struct {
	Db *gorm.DB
}

func NewMysqlDb(dsn string) *Wdb {
	logLevel := logger.Error
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:          logger.Default.LogMode(logLevel),
		CreateBatchSize: 200,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect mysql db success")
	return &Wdb{Db: db}
}

func NewSqliteDb(dbDir string) *Wdb {
	if err := os.MkdirAll(dbDir, os.ModePerm); err != nil {
		panic(err)
	}
	db, err := gorm.Open(sqlite.Open(path.Join(dbDir, sqliteName)), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Error),
		CreateBatchSize: 200,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect sqlite db success")
	return &Wdb{Db: db}
}

func (w *Wdb) Migrate() error {
	return w.Db.AutoMigrate(&schema.EventRecord{})
}

func (w *Wdb) InsertEvent(ev schema.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	rec := schema.EventRecord{
		EventId: ev.Id,
		Kind:    string(ev.Kind),
		Epoch:   ev.Epoch,
		Domain:  ev.Domain,
		AssetId: ev.AssetId,
		Payload: payload,
	}
	return w.Db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error
}

func (w *Wdb) Publish(ev schema.Event) error {
	return w.InsertEvent(ev)
}

// ListEvents pages the history newest first. Empty filters match everything;
// cursor is the last seen record id, 0 for the first page.
func (w *Wdb) ListEvents(kind, domain string, cursor uint, limit int) ([]schema.EventRecord, error) {
	if limit <= 0 {
		limit = DefaultEventPageSize
	}
	if limit > MaxEventPageSize {
		limit = MaxEventPageSize
	}
	query := w.Db.Model(&schema.EventRecord{})
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if domain != "" {
		query = query.Where("domain = ?", domain)
	}
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	res := make([]schema.EventRecord, 0, limit)
	err := query.Order("id desc").Limit(limit).Find(&res).Error
	return res, err
}

func (w *Wdb) Close() {
	sql, err := w.Db.DB()
	if err == nil {
		sql.Close()
	}
}
