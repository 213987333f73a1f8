package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/moyu-x/file-organizer/pkg/logger"
	"github.com/moyu-x/file-organizer/pkg/oplog"
)

// ErrLocked 另一个进程正在使用同一个操作日志
var ErrLocked = errors.New("操作日志正被其他进程使用")

type BatchRecord struct {
	ID        int64     `gorm:"primaryKey"`
	Session   string    `gorm:"not null"`
	DryRun    bool      `gorm:"not null"`
	Undone    bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (BatchRecord) TableName() string {
	return "batches"
}

type OperationRecord struct {
	ID        int64  `gorm:"primaryKey"`
	BatchID   int64  `gorm:"index;not null"`
	Seq       int    `gorm:"not null"`
	MovedTo   string `gorm:"not null"`
	MovedFrom string `gorm:"not null"`
	Succeeded bool   `gorm:"not null"`
	Error     string
	CreatedAt time.Time `gorm:"not null"`
}

func (OperationRecord) TableName() string {
	return "operations"
}

// Database 基于 SQLite 的操作日志存储，使撤销可以跨进程进行
type Database struct {
	db      *gorm.DB
	lock    *flock.Flock
	session string
}

var _ oplog.Store = (*Database)(nil)

func NewDatabase(dbPath string) (*Database, error) {
	expandedPath, err := expandPath(dbPath)
	if err != nil {
		logger.Get().Error().Err(err).Msg("扩展数据库路径失败")
		return nil, err
	}

	logger.Get().Debug().Msgf("初始化数据库，路径: %s", expandedPath)

	if err := os.MkdirAll(filepath.Dir(expandedPath), 0755); err != nil {
		logger.Get().Error().Err(err).Msgf("创建数据库目录失败: %s", filepath.Dir(expandedPath))
		return nil, err
	}

	lock := flock.New(expandedPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("锁定操作日志: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}

	dsn := expandedPath + "?_journal_mode=WAL"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		_ = lock.Unlock()
		logger.Get().Error().Err(err).Msg("打开数据库连接失败")
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		_ = lock.Unlock()
		logger.Get().Error().Err(err).Msg("获取数据库连接失败")
		return nil, err
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&BatchRecord{}, &OperationRecord{}); err != nil {
		_ = sqlDB.Close()
		_ = lock.Unlock()
		logger.Get().Error().Err(err).Msg("创建数据库表失败")
		return nil, err
	}

	return &Database{
		db:      db,
		lock:    lock,
		session: uuid.NewString(),
	}, nil
}

func expandPath(path string) (string, error) {
	if len(path) >= 2 && path[0] == '~' && (path[1] == '/' || path[1] == '\\') {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

func (d *Database) CreateBatch(dryRun bool) (oplog.Batch, error) {
	rec := &BatchRecord{Session: d.session, DryRun: dryRun, CreatedAt: time.Now()}
	if err := d.db.Create(rec).Error; err != nil {
		logger.Get().Error().Err(err).Msg("创建批次失败")
		return oplog.Batch{}, err
	}
	logger.Get().Debug().Msgf("创建批次: %d (预览: %v)", rec.ID, dryRun)
	return toBatch(rec), nil
}

func (d *Database) AppendEntry(entry oplog.Entry) error {
	rec := &OperationRecord{
		BatchID:   entry.BatchID,
		Seq:       entry.Seq,
		MovedTo:   entry.MovedTo,
		MovedFrom: entry.MovedFrom,
		Succeeded: entry.Succeeded,
		Error:     entry.Error,
		CreatedAt: entry.CreatedAt,
	}
	if err := d.db.Create(rec).Error; err != nil {
		logger.Get().Error().Err(err).Msgf("写入操作记录失败: %s", entry.MovedFrom)
		return err
	}
	return nil
}

func (d *Database) LastLiveBatch() (oplog.Batch, bool, error) {
	var recs []BatchRecord
	err := d.db.Where("dry_run = ?", false).Order("id desc").Limit(1).Find(&recs).Error
	if err != nil {
		return oplog.Batch{}, false, err
	}
	if len(recs) == 0 {
		return oplog.Batch{}, false, nil
	}
	return toBatch(&recs[0]), true, nil
}

func (d *Database) Entries(batchID int64) ([]oplog.Entry, error) {
	var recs []OperationRecord
	if err := d.db.Where("batch_id = ?", batchID).Order("seq asc").Find(&recs).Error; err != nil {
		return nil, err
	}
	entries := make([]oplog.Entry, 0, len(recs))
	for _, r := range recs {
		entries = append(entries, oplog.Entry{
			BatchID:   r.BatchID,
			Seq:       r.Seq,
			MovedTo:   r.MovedTo,
			MovedFrom: r.MovedFrom,
			Succeeded: r.Succeeded,
			Error:     r.Error,
			CreatedAt: r.CreatedAt,
		})
	}
	return entries, nil
}

func (d *Database) MarkUndone(batchID int64) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&BatchRecord{}).Where("id = ?", batchID).Update("undone", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("批次不存在: %d", batchID)
		}
		return tx.Where("batch_id = ?", batchID).Delete(&OperationRecord{}).Error
	})
}

// RecentBatches 返回最近的 n 个批次，按时间倒序
func (d *Database) RecentBatches(n int) ([]oplog.Batch, error) {
	var recs []BatchRecord
	if err := d.db.Order("id desc").Limit(n).Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]oplog.Batch, 0, len(recs))
	for i := range recs {
		out = append(out, toBatch(&recs[i]))
	}
	return out, nil
}

func (d *Database) Close() error {
	logger.Get().Debug().Msg("关闭数据库连接")
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			logger.Get().Error().Err(err).Msg("释放操作日志锁失败")
		}
	}()

	sqlDB, err := d.db.DB()
	if err != nil {
		logger.Get().Error().Err(err).Msg("获取数据库连接失败")
		return err
	}
	return sqlDB.Close()
}

func toBatch(rec *BatchRecord) oplog.Batch {
	return oplog.Batch{
		ID:        rec.ID,
		DryRun:    rec.DryRun,
		Undone:    rec.Undone,
		CreatedAt: rec.CreatedAt,
	}
}
