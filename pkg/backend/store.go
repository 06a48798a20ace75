package backend

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/setlist/pkg/catalog"
)

// Seed is the initial content of a Store, as read from a JSON file.
type Seed struct {
	Users       []catalog.User     `json:"users"`
	Concerts    []SeedConcert      `json:"concerts"`
	Songs       []catalog.Song     `json:"songs"`
	Collections map[string][]int64 `json:"collections"` // user id -> concert ids
}

// SeedConcert is a concert with its owning artist.
type SeedConcert struct {
	catalog.Concert
	ArtistID int64   `json:"artistId"`
	SongIDs  []int64 `json:"songIds,omitempty"`
}

// LoadSeed reads a seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var s Seed
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return &s, nil
}

type concertRecord struct {
	concert  catalog.Concert
	artistID int64
	songIDs  []int64
}

type file struct {
	name string
	data []byte
}

// Store is the in-memory state of the development backend.
// It is safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	users       map[int64]catalog.User
	concerts    map[int64]*concertRecord
	songs       map[int64]catalog.Song
	collections map[int64][]int64
	files       map[string]file
	nextSongID  int64
}

// NewStore builds a store from seed. A nil seed yields an empty store.
func NewStore(seed *Seed) (*Store, error) {
	s := &Store{
		users:       map[int64]catalog.User{},
		concerts:    map[int64]*concertRecord{},
		songs:       map[int64]catalog.Song{},
		collections: map[int64][]int64{},
		files:       map[string]file{},
		nextSongID:  1,
	}
	if seed == nil {
		return s, nil
	}
	for _, u := range seed.Users {
		s.users[u.UserID] = u
	}
	for _, song := range seed.Songs {
		s.songs[song.ID] = song
		s.nextSongID = max(s.nextSongID, song.ID+1)
	}
	for _, c := range seed.Concerts {
		rec := &concertRecord{concert: c.Concert, artistID: c.ArtistID, songIDs: c.SongIDs}
		if _, ok := s.concerts[c.ID]; ok {
			return nil, fmt.Errorf("seed: duplicate concert %d", c.ID)
		}
		for _, id := range rec.songIDs {
			if _, ok := s.songs[id]; !ok {
				return nil, fmt.Errorf("seed: concert %d references unknown song %d", c.ID, id)
			}
		}
		s.concerts[c.ID] = rec
	}
	for rawID, ids := range seed.Collections {
		var uid int64
		if _, err := fmt.Sscan(rawID, &uid); err != nil {
			return nil, fmt.Errorf("seed: invalid collection owner %q", rawID)
		}
		for _, id := range ids {
			if _, ok := s.concerts[id]; !ok {
				return nil, fmt.Errorf("seed: collection of user %d references unknown concert %d", uid, id)
			}
		}
		s.collections[uid] = append([]int64(nil), ids...)
	}
	return s, nil
}

// User returns a user profile.
func (s *Store) User(id int64) (catalog.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

// Collection returns one page of a user's collection, ordered by concert id.
// Unknown users have an empty collection.
func (s *Store) Collection(userID int64, page, size int) *catalog.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := append([]int64(nil), s.collections[userID]...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	start := min(page*size, len(ids))
	end := min(start+size, len(ids))
	items := make([]catalog.Item, 0, end-start)
	for _, id := range ids[start:end] {
		items = append(items, s.itemLocked(s.concerts[id]))
	}
	return catalog.NewPage(items, page, size, int64(len(ids)))
}

func (s *Store) itemLocked(rec *concertRecord) catalog.Item {
	c := rec.concert
	artist := ""
	if u, ok := s.users[rec.artistID]; ok {
		artist = u.Name()
	}
	return catalog.Item{
		ConcertID:   c.ID,
		Name:        c.Name,
		Img:         c.Img,
		ConcertDate: c.ConcertDate,
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
		TicketPrice: c.TicketPrice,
		PeopleScale: c.PeopleScale,
		ArtistName:  artist,
	}
}

// Concert returns a concert with its songs resolved.
func (s *Store) Concert(id int64) (catalog.Concert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.concerts[id]
	if !ok {
		return catalog.Concert{}, false
	}
	return s.concertLocked(rec), true
}

func (s *Store) concertLocked(rec *concertRecord) catalog.Concert {
	c := rec.concert
	c.Songs = make([]catalog.Song, 0, len(rec.songIDs))
	for _, id := range rec.songIDs {
		c.Songs = append(c.Songs, s.songs[id])
	}
	return c
}

// ConcertArtist returns the id of the artist owning a concert.
func (s *Store) ConcertArtist(id int64) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.concerts[id]
	if !ok {
		return 0, false
	}
	return rec.artistID, true
}

// UpdateConcert applies u to concert id. Every song id must exist.
func (s *Store) UpdateConcert(id int64, u catalog.ConcertUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.concerts[id]
	if !ok {
		return catalog.ErrNotFound
	}
	for _, sid := range u.SongIDs {
		if _, ok := s.songs[sid]; !ok {
			return fmt.Errorf("unknown song %d", sid)
		}
	}
	c := &rec.concert
	c.Name = u.Name
	c.ConcertDate = u.ConcertDate
	c.StartTime = u.StartTime
	c.EndTime = u.EndTime
	c.TicketPrice = u.TicketPrice
	c.PeopleScale = u.PeopleScale
	if u.Img != "" {
		c.Img = u.Img
	}
	rec.songIDs = append([]int64(nil), u.SongIDs...)
	return nil
}

// SongsByArtist lists an artist's songs ordered by id.
func (s *Store) SongsByArtist(artistID int64) []catalog.Song {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []catalog.Song{}
	for _, song := range s.songs {
		if song.ArtistID == artistID {
			out = append(out, song)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CreateSong registers a song and assigns its id.
func (s *Store) CreateSong(title, url string, artistID int64) catalog.Song {
	s.mu.Lock()
	defer s.mu.Unlock()
	song := catalog.Song{ID: s.nextSongID, Title: title, URL: url, ArtistID: artistID}
	s.songs[song.ID] = song
	s.nextSongID++
	return song
}

// PutFile stores an uploaded file and returns its key.
func (s *Store) PutFile(name string, data []byte) string {
	key := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = file{name: name, data: data}
	return key
}

// File returns an uploaded file by key.
func (s *Store) File(key string) (name string, data []byte, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[key]
	return f.name, f.data, ok
}

// DeleteFile removes an uploaded file. It reports whether the file existed.
func (s *Store) DeleteFile(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[key]
	delete(s.files, key)
	return ok
}
