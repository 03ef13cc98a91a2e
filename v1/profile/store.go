package profile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/vectordesk/core/v1/embedding"
	"github.com/vectordesk/core/v1/vectorstore"
)

func overrideKey(profileID, collection string) []byte {
	return []byte(profileID + "/" + collection)
}

// SaveProfile writes or overwrites one connection profile keyed by its id.
func (s *Store) SaveProfile(p vectorstore.ConnectionProfile) error {
	if p.ID == "" {
		return fmt.Errorf("profile: profile id is required")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("profile: encoding profile %s: %w", p.ID, err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketProfiles).Put([]byte(p.ID), data)
	})
}

// GetProfile reads one profile by id.
func (s *Store) GetProfile(id string) (*vectorstore.ConnectionProfile, error) {
	var p vectorstore.ConnectionProfile
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketProfiles).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %q", ErrProfileNotFound, id)
		}
		return json.Unmarshal(data, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProfiles returns every saved profile in id order.
func (s *Store) ListProfiles() ([]vectorstore.ConnectionProfile, error) {
	var profiles []vectorstore.ConnectionProfile
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketProfiles).ForEach(func(k, v []byte) error {
			var p vectorstore.ConnectionProfile
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("profile: decoding profile %s: %w", k, err)
			}
			profiles = append(profiles, p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// DeleteProfile removes one profile together with every override saved
// under it.
func (s *Store) DeleteProfile(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		profiles := tx.Bucket(bucketProfiles)
		if profiles.Get([]byte(id)) == nil {
			return fmt.Errorf("%w: %q", ErrProfileNotFound, id)
		}
		if err := profiles.Delete([]byte(id)); err != nil {
			return err
		}

		// The trailing separator keeps a sibling id like "p10" out of
		// the "p1" prefix.
		prefix := []byte(id + "/")
		overrides := tx.Bucket(bucketOverrides)
		var stale [][]byte
		c := overrides.Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			stale = append(stale, append([]byte(nil), k...))
		}
		for _, k := range stale {
			if err := overrides.Delete(k); err != nil {
				return err
			}
		}
		if len(stale) > 0 {
			s.log.Debug("dropped overrides with profile", nil, map[string]interface{}{
				"profile":   id,
				"overrides": len(stale),
			})
		}
		return nil
	})
}

// SetOverride saves the embedding function override for one collection on
// one profile, replacing any previous override.
func (s *Store) SetOverride(profileID, collection string, d embedding.Descriptor) error {
	if profileID == "" || collection == "" {
		return fmt.Errorf("profile: profile id and collection are required")
	}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("profile: encoding override for %s/%s: %w", profileID, collection, err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketOverrides).Put(overrideKey(profileID, collection), data)
	})
}

// GetOverride reads the saved override for one collection on one profile.
func (s *Store) GetOverride(profileID, collection string) (*embedding.Descriptor, error) {
	var d embedding.Descriptor
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketOverrides).Get(overrideKey(profileID, collection))
		if data == nil {
			return fmt.Errorf("%w: %s/%s", ErrOverrideNotFound, profileID, collection)
		}
		return json.Unmarshal(data, &d)
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ClearOverride removes the override for one collection on one profile.
// Clearing an override that does not exist is a no-op.
func (s *Store) ClearOverride(profileID, collection string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketOverrides).Delete(overrideKey(profileID, collection))
	})
}

// OverrideFor satisfies embedding.OverrideSource. A missing override is
// nil; a read failure is logged and treated as absent so resolution falls
// through to the collection's own configuration.
func (s *Store) OverrideFor(profileID, collection string) *embedding.Descriptor {
	d, err := s.GetOverride(profileID, collection)
	if err != nil {
		if !IsOverrideNotFoundError(err) {
			s.log.Warn("could not read embedding override", err, map[string]interface{}{
				"profile":    profileID,
				"collection": collection,
			})
		}
		return nil
	}
	return d
}
