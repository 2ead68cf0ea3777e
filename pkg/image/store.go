package image

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

var bucketImages = []byte("images")

// Store is a bbolt-backed catalog of images the engine has built or
// published, keyed by ref string ("name" or "name:tag"). It is not
// part of the engine's own state document (§6 State document): the
// engine persists only platforms; the catalog is a separate
// convenience the driver may wire in for its own offer/retire
// bookkeeping.
type Store struct {
	db *bolt.DB
}

// OpenStore opens (creating if absent) a bbolt catalog at
// <dataDir>/images.db.
func OpenStore(dataDir string) (*Store, error) {
	path := filepath.Join(dataDir, "images.db")
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("image: open catalog: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketImages)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("image: create catalog bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put records img under its ref, overwriting any previous entry.
func (s *Store) Put(img *Image) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketImages)
		data, err := json.Marshal(img)
		if err != nil {
			return fmt.Errorf("image: marshal %s: %w", img.Ref, err)
		}
		return b.Put([]byte(img.Ref.String()), data)
	})
}

// Get returns the image recorded under ref, or an error if absent.
func (s *Store) Get(ref Ref) (*Image, error) {
	var img Image
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketImages)
		data := b.Get([]byte(ref.String()))
		if data == nil {
			return fmt.Errorf("image: not found: %s", ref)
		}
		return json.Unmarshal(data, &img)
	})
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// List returns every cataloged image.
func (s *Store) List() ([]*Image, error) {
	var images []*Image
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketImages)
		return b.ForEach(func(k, v []byte) error {
			var img Image
			if err := json.Unmarshal(v, &img); err != nil {
				return err
			}
			images = append(images, &img)
			return nil
		})
	})
	return images, err
}

// Delete removes ref from the catalog. It does not fail if ref is
// absent.
func (s *Store) Delete(ref Ref) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketImages)
		return b.Delete([]byte(ref.String()))
	})
}
