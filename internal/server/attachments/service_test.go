package attachments

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notesafe/notesafe/internal/common"
	sc "github.com/notesafe/notesafe/internal/server/config"
	"github.com/notesafe/notesafe/internal/server/notes"
)

type fakeAttachmentRepo struct {
	mu   sync.Mutex
	atts map[string]*Attachment
}

func newFakeAttachmentRepo() *fakeAttachmentRepo {
	return &fakeAttachmentRepo{atts: make(map[string]*Attachment)}
}

func (f *fakeAttachmentRepo) Create(_ context.Context, a *Attachment) (*Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.CreatedAt = time.Now()
	f.atts[a.ID] = a
	return a, nil
}

func (f *fakeAttachmentRepo) GetByID(_ context.Context, userID, noteID, attID string) (*Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.atts[attID]
	if !ok || a.UserID != userID || a.NoteID != noteID {
		return nil, common.ErrNotFound
	}
	return a, nil
}

// fakeNotesRepo only answers GetByID; the service never touches the rest.
type fakeNotesRepo struct {
	owned map[string]string // note id -> owner user id
}

func (f *fakeNotesRepo) GetByID(_ context.Context, userID, noteID string) (*notes.Note, error) {
	owner, ok := f.owned[noteID]
	if !ok || owner != userID {
		return nil, common.ErrNotFound
	}
	return &notes.Note{ID: noteID, UserID: userID}, nil
}

func (f *fakeNotesRepo) Create(_ context.Context, n *notes.Note) (*notes.Note, error) { return n, nil }
func (f *fakeNotesRepo) List(_ context.Context, _, _ string) ([]*notes.Note, error)   { return nil, nil }
func (f *fakeNotesRepo) Update(_ context.Context, n *notes.Note) (*notes.Note, error) { return n, nil }
func (f *fakeNotesRepo) Delete(_ context.Context, _, _ string) error                  { return nil }

type recordingPresigner struct {
	putKeys []string
	getKeys []string
}

func (p *recordingPresigner) PresignPut(_ context.Context, key string) (string, error) {
	p.putKeys = append(p.putKeys, key)
	return "https://s3.example.com/put/" + key, nil
}

func (p *recordingPresigner) PresignGet(_ context.Context, key string) (string, error) {
	p.getKeys = append(p.getKeys, key)
	return "https://s3.example.com/get/" + key, nil
}

func newTestService(owned map[string]string) (*Service, *recordingPresigner) {
	cfg := &sc.Config{}
	cfg.LoadDefaults()
	presigner := &recordingPresigner{}
	svc := NewService(newFakeAttachmentRepo(), &fakeNotesRepo{owned: owned}, cfg).WithPresigner(presigner)
	return svc, presigner
}

func TestRegisterUpload(t *testing.T) {
	svc, presigner := newTestService(map[string]string{"note-1": "user-1"})

	att, url, err := svc.RegisterUpload(context.Background(), "user-1", "note-1", "scan.png", "image/png")
	require.NoError(t, err)

	assert.NotEmpty(t, att.ID)
	assert.Equal(t, "note-1", att.NoteID)
	assert.Equal(t, "user-1", att.UserID)
	assert.Equal(t, "scan.png", att.FileName)
	assert.NotEmpty(t, att.StorageKey)
	assert.Equal(t, "https://s3.example.com/put/"+att.StorageKey, url)
	assert.Equal(t, []string{att.StorageKey}, presigner.putKeys)
}

func TestRegisterUpload_NoteNotOwned(t *testing.T) {
	svc, presigner := newTestService(map[string]string{"note-1": "user-1"})

	_, _, err := svc.RegisterUpload(context.Background(), "user-2", "note-1", "scan.png", "")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Empty(t, presigner.putKeys, "no URL may be issued for a foreign note")
}

func TestRegisterUpload_NoteMissing(t *testing.T) {
	svc, _ := newTestService(map[string]string{})

	_, _, err := svc.RegisterUpload(context.Background(), "user-1", "no-such-note", "scan.png", "")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDownloadURL(t *testing.T) {
	svc, presigner := newTestService(map[string]string{"note-1": "user-1"})

	att, _, err := svc.RegisterUpload(context.Background(), "user-1", "note-1", "scan.png", "image/png")
	require.NoError(t, err)

	url, err := svc.DownloadURL(context.Background(), "user-1", "note-1", att.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com/get/"+att.StorageKey, url)
	assert.Equal(t, []string{att.StorageKey}, presigner.getKeys)
}

func TestDownloadURL_WrongUser(t *testing.T) {
	svc, _ := newTestService(map[string]string{"note-1": "user-1"})

	att, _, err := svc.RegisterUpload(context.Background(), "user-1", "note-1", "scan.png", "")
	require.NoError(t, err)

	_, err = svc.DownloadURL(context.Background(), "user-2", "note-1", att.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestStorageKeysAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		k := randomStorageKey()
		assert.False(t, seen[k])
		seen[k] = true
	}
}
