// Package store connects to the data store and manages timers, activity
// entries, and daily aggregates
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/azatkg/lounge/internal/models"
	"github.com/azatkg/lounge/internal/timeutil"
)

var pathToDB string

// maxActivityEntries caps the activity bucket; the oldest entries beyond it
// are pruned on each append.
const maxActivityEntries = 500

var (
	timersBucket   = []byte("timers")
	activityBucket = []byte("activity")
	statsBucket    = []byte("stats")
)

var errLoungeRunning = errors.New(
	"is lounge already running? Only one instance can be active at a time",
)

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

func (c *Client) GetTimers() ([]*models.Timer, error) {
	var timers []*models.Timer

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket(timersBucket).ForEach(func(_, v []byte) error {
			var t models.Timer

			err := json.Unmarshal(v, &t)
			if err != nil {
				return err
			}

			timers = append(timers, &t)

			return nil
		})
	})

	return timers, err
}

func (c *Client) UpdateTimer(t *models.Timer) error {
	value, err := json.Marshal(t)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(timersBucket).Put([]byte(t.ID), value)
	})
}

func (c *Client) AppendActivity(entry *models.ActivityEntry) error {
	key := timeutil.ToKey(entry.Timestamp)

	value, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(activityBucket)

		err := b.Put(key, value)
		if err != nil {
			return err
		}

		// prune the oldest entries beyond the retention cap
		excess := b.Stats().KeyN + 1 - maxActivityEntries

		cur := b.Cursor()
		for k, _ := cur.First(); k != nil && excess > 0; k, _ = cur.Next() {
			err = cur.Delete()
			if err != nil {
				return err
			}

			excess--
		}

		return nil
	})
}

func (c *Client) RecentActivity(limit int) ([]*models.ActivityEntry, error) {
	var entries []*models.ActivityEntry

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket(activityBucket).Cursor()

		for k, v := cur.Last(); k != nil && len(entries) < limit; k, v = cur.Prev() {
			var entry models.ActivityEntry

			err := json.Unmarshal(v, &entry)
			if err != nil {
				return err
			}

			entries = append(entries, &entry)
		}

		return nil
	})

	return entries, err
}

func (c *Client) GetDailyStat(key string) (*models.DailyStat, error) {
	stat := &models.DailyStat{
		Date:    key,
		Elapsed: make(map[string]time.Duration),
	}

	err := c.View(func(tx *bolt.Tx) error {
		statBytes := tx.Bucket(statsBucket).Get([]byte(key))
		if len(statBytes) == 0 {
			// this will initialise a new aggregate row
			return nil
		}

		return json.Unmarshal(statBytes, stat)
	})

	if stat.Elapsed == nil {
		stat.Elapsed = make(map[string]time.Duration)
	}

	return stat, err
}

func (c *Client) UpdateDailyStat(stat *models.DailyStat) error {
	value, err := json.Marshal(stat)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(statsBucket).Put([]byte(stat.Date), value)
	})
}

func (c *Client) GetDailyStats(
	start, end time.Time,
) ([]*models.DailyStat, error) {
	var stats []*models.DailyStat

	minKey := []byte(timeutil.DayKey(start))
	maxKey := []byte(timeutil.DayKey(end))

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket(statsBucket).Cursor()

		for k, v := cur.Seek(minKey); k != nil && string(k) <= string(maxKey); k, v = cur.Next() {
			var stat models.DailyStat

			err := json.Unmarshal(v, &stat)
			if err != nil {
				return err
			}

			stats = append(stats, &stat)
		}

		return nil
	})

	return stats, err
}

func (c *Client) Open() error {
	db, err := openDB(pathToDB)
	if err != nil {
		return err
	}

	*c = Client{
		db,
	}

	return nil
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		// a second instance holding the file lock surfaces as a timeout
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errLoungeRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	pathToDB = dbPath

	db, err := openDB(pathToDB)
	if err != nil {
		return nil, err
	}
	// Create the necessary buckets for storing data if they do not exist already
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{timersBucket, activityBucket, statsBucket} {
			_, err = tx.CreateBucketIfNotExists(name)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		db,
	}, nil
}
