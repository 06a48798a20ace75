package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	serrors "github.com/matzehuels/setlist/pkg/errors"
	"github.com/matzehuels/setlist/pkg/httputil"
)

// Step identifies a user-visible step of the edit workflow.
type Step int

const (
	StepSongUpload Step = iota
	StepImageUpload
	StepConcertUpdate
)

func (s Step) String() string {
	switch s {
	case StepSongUpload:
		return "song-upload"
	case StepImageUpload:
		return "image-upload"
	case StepConcertUpdate:
		return "concert-update"
	default:
		return "step(" + strconv.Itoa(int(s)) + ")"
	}
}

// Notifier is told about the progress of each workflow step. A step reports
// Loading once and then exactly one of Success or Failure.
type Notifier interface {
	Loading(step Step)
	Success(step Step)
	Failure(step Step, err error)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Loading(Step)        {}
func (NopNotifier) Success(Step)        {}
func (NopNotifier) Failure(Step, error) {}

// Editor wraps the mutation endpoints of the concert edit workflow.
// Mutations are sent once and never retried.
type Editor struct {
	client   *Client
	artistID int64
}

// NewEditor returns an editor acting as artistID, the signed-in user.
func NewEditor(c *Client, artistID int64) *Editor {
	return &Editor{client: c, artistID: artistID}
}

// MySongs lists the songs uploaded by the signed-in user.
// GET /songs/my-songs
func (e *Editor) MySongs(ctx context.Context) ([]Song, error) {
	var songs []Song
	err := httputil.Retry(ctx, e.client.retry, func() error {
		return e.client.do(ctx, http.MethodGet, "/songs/my-songs", nil, nil, "", &songs)
	})
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	return songs, nil
}

// Concert fetches the full concert record.
// GET /concerts/{id}
func (e *Editor) Concert(ctx context.Context, id int64) (*Concert, error) {
	var c Concert
	err := httputil.Retry(ctx, e.client.retry, func() error {
		return e.client.do(ctx, http.MethodGet, "/concerts/"+strconv.FormatInt(id, 10), nil, nil, "", &c)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, serrors.Wrap(serrors.ErrCodeConcertNotFound, err, "concert %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("concert %d: %w", id, err)
	}
	return &c, nil
}

// UploadFile uploads r as a multipart "file" field and returns the URL the
// backend stored it under.
// POST /files/upload
func (e *Editor) UploadFile(ctx context.Context, name string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, io.LimitReader(r, serrors.MaxUploadSize+1)); err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	data, err := e.client.send(ctx, http.MethodPost, "/files/upload", nil, buf.Bytes(), mw.FormDataContentType())
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	u := decodeFileURL(data)
	if u == "" {
		return "", fmt.Errorf("upload %s: backend returned no file URL", name)
	}
	return u, nil
}

// UploadPath uploads the local file at path.
func (e *Editor) UploadPath(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrCodeInvalidFile, err, "open %s", path)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return "", serrors.Wrap(serrors.ErrCodeInvalidFile, err, "stat %s", path)
	}
	if err := serrors.ValidateUploadFile(path, info.Size()); err != nil {
		return "", err
	}
	return e.UploadFile(ctx, filepath.Base(path), f)
}

// CreateSong registers an uploaded file as a song of the signed-in user.
// POST /songs
func (e *Editor) CreateSong(ctx context.Context, title, fileURL string) (*Song, error) {
	body, err := json.Marshal(struct {
		Title    string `json:"title"`
		URL      string `json:"url"`
		ArtistID int64  `json:"artistId"`
	}{title, fileURL, e.artistID})
	if err != nil {
		return nil, err
	}
	var s Song
	if err := e.client.do(ctx, http.MethodPost, "/songs", nil, body, "application/json", &s); err != nil {
		return nil, fmt.Errorf("create song %q: %w", title, err)
	}
	return &s, nil
}

// UpdateConcert replaces the editable fields of a concert.
// PUT /concerts/{id}
func (e *Editor) UpdateConcert(ctx context.Context, id int64, u ConcertUpdate) error {
	if u.SongIDs == nil {
		u.SongIDs = []int64{}
	}
	body, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := e.client.do(ctx, http.MethodPut, "/concerts/"+strconv.FormatInt(id, 10), nil, body, "application/json", nil); err != nil {
		return fmt.Errorf("update concert %d: %w", id, err)
	}
	return nil
}

// RemoveSongFile deletes an uploaded file.
// DELETE /files?fileUrl=
func (e *Editor) RemoveSongFile(ctx context.Context, fileURL string) error {
	q := url.Values{"fileUrl": {fileURL}}
	if err := e.client.do(ctx, http.MethodDelete, "/files", q, nil, "", nil); err != nil {
		return fmt.Errorf("delete file %s: %w", fileURL, err)
	}
	return nil
}

// AddSong uploads the file at path, registers it as a song titled title and
// returns form with the new song id appended.
//
// The two backend calls are not transactional. When registration fails
// after the upload succeeded, the uploaded file stays on the backend; the
// returned error has code ErrCodePartialUpdate and names the file URL.
func (e *Editor) AddSong(ctx context.Context, form ConcertUpdate, title, path string, n Notifier) (ConcertUpdate, *Song, error) {
	if n == nil {
		n = NopNotifier{}
	}
	if strings.TrimSpace(title) == "" {
		return form, nil, serrors.New(serrors.ErrCodeInvalidInput, "song title cannot be empty")
	}

	n.Loading(StepSongUpload)
	fileURL, err := e.UploadPath(ctx, path)
	if err != nil {
		n.Failure(StepSongUpload, err)
		return form, nil, err
	}
	song, err := e.CreateSong(ctx, title, fileURL)
	if err != nil {
		err = serrors.Wrap(serrors.ErrCodePartialUpdate, err, "song file uploaded to %s but not registered", fileURL)
		n.Failure(StepSongUpload, err)
		return form, nil, err
	}
	n.Success(StepSongUpload)
	return form.WithSong(song.ID), song, nil
}

// SetImage uploads the image at path and returns form pointing at it.
func (e *Editor) SetImage(ctx context.Context, form ConcertUpdate, path string, n Notifier) (ConcertUpdate, error) {
	if n == nil {
		n = NopNotifier{}
	}
	n.Loading(StepImageUpload)
	fileURL, err := e.UploadPath(ctx, path)
	if err != nil {
		n.Failure(StepImageUpload, err)
		return form, err
	}
	n.Success(StepImageUpload)
	form.Img = fileURL
	return form, nil
}

// RemoveSong deletes the song's file, if the song is among songs and has
// one, and returns form without the song id. The song record itself is
// left on the backend.
func (e *Editor) RemoveSong(ctx context.Context, form ConcertUpdate, songs []Song, id int64) (ConcertUpdate, error) {
	for _, s := range songs {
		if s.ID == id && s.URL != "" {
			if err := e.RemoveSongFile(ctx, s.URL); err != nil {
				return form, err
			}
			break
		}
	}
	return form.WithoutSong(id), nil
}

// Save submits form as the new state of concert id.
func (e *Editor) Save(ctx context.Context, id int64, form ConcertUpdate, n Notifier) error {
	if n == nil {
		n = NopNotifier{}
	}
	n.Loading(StepConcertUpdate)
	if err := e.UpdateConcert(ctx, id, form); err != nil {
		n.Failure(StepConcertUpdate, err)
		return err
	}
	n.Success(StepConcertUpdate)
	return nil
}

// decodeFileURL accepts the upload reply either as a JSON string or as
// plain text.
func decodeFileURL(data []byte) string {
	var s string
	if json.Unmarshal(data, &s) == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(data))
}
