package local

import (
	"encoding/json"
	"log"

	"github.com/dgraph-io/ristretto"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Entry is one shadow-copy record: the most recently observed wallet,
// transaction list, or goal list, JSON-encoded and keyed per family. An
// empty family id is the unauthenticated namespace.
type Entry struct {
	FamilyID string `gorm:"primaryKey"`
	Key      string `gorm:"primaryKey"`
	Value    string
}

// Store is the durable on-device key-value facade. Reads go through an
// in-process ristretto cache; the sqlite file is authoritative.
type Store struct {
	db    *gorm.DB
	cache *ristretto.Cache
}

func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000,
		MaxCost:     1000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Store{db: db, cache: cache}, nil
}

func (s *Store) Close() error {
	s.cache.Close()
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func cacheKey(familyID, key string) string {
	return familyID + "/" + key
}

// Get decodes the stored value into out and reports whether it found one.
// Missing or corrupt entries leave out untouched so the caller's default
// survives.
func (s *Store) Get(familyID, key string, out any) bool {
	ck := cacheKey(familyID, key)
	var text string
	if raw, ok := s.cache.Get(ck); ok {
		text = raw.(string)
	} else {
		var e Entry
		if err := s.db.Where("family_id = ? AND key = ?", familyID, key).First(&e).Error; err != nil {
			return false
		}
		text = e.Value
		s.cache.Set(ck, text, 1)
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		log.Printf("ERROR: corrupt local entry %s/%s: %v", familyID, key, err)
		return false
	}
	return true
}

// Set is best-effort: storage failures are logged and swallowed, the
// accepted data-loss risk of on-device persistence.
func (s *Store) Set(familyID, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Printf("ERROR: encode local entry %s/%s: %v", familyID, key, err)
		return
	}
	e := Entry{FamilyID: familyID, Key: key, Value: string(raw)}
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&e).Error; err != nil {
		log.Printf("ERROR: save local entry %s/%s: %v", familyID, key, err)
		return
	}
	s.cache.Set(cacheKey(familyID, key), string(raw), 1)
	// Flush the buffered set so a read-after-write sees this value, not a
	// previously cached one.
	s.cache.Wait()
}
