package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/odvcencio/gitscope/pkg/archive"
	"github.com/odvcencio/gitscope/pkg/export"
	"github.com/odvcencio/gitscope/pkg/object"
	"github.com/odvcencio/gitscope/pkg/repo"
)

// snapshotSummary is returned after an upload.
type snapshotSummary struct {
	ID       string           `json:"id"`
	Head     repo.HeadPointer `json:"head"`
	Commits  int              `json:"commits"`
	Branches []repo.Ref       `json:"branches"`
	Tags     []repo.Ref       `json:"tags"`
	Report   repo.Report      `json:"report"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJsonResp(w, nil, map[string]interface{}{"status": "OK", "sessions": s.store.Len()}, http.StatusOK)
}

func (s *Server) createSnapshot(w http.ResponseWriter, r *http.Request) {
	id, sess := s.store.Create()
	s.metrics.sessions.Set(float64(s.store.Len()))

	snap, status, err := s.load(w, r, sess)
	if err != nil {
		s.store.Delete(id)
		s.metrics.sessions.Set(float64(s.store.Len()))
		s.writeJsonResp(w, err, err.Error(), status)
		return
	}
	s.writeJsonResp(w, nil, summarize(id, snap), http.StatusCreated)
}

// replaceSnapshot loads a new upload into an existing session. The previous
// snapshot is discarded even when the new upload fails.
func (s *Server) replaceSnapshot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, ok := s.session(id)
	if !ok {
		s.writeJsonResp(w, fmt.Errorf("snapshot %s not found", id), "snapshot not found", http.StatusNotFound)
		return
	}
	snap, status, err := s.load(w, r, sess)
	if err != nil {
		s.writeJsonResp(w, err, err.Error(), status)
		return
	}
	s.writeJsonResp(w, nil, summarize(id, snap), http.StatusOK)
}

func (s *Server) deleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.store.Delete(id) {
		s.writeJsonResp(w, fmt.Errorf("snapshot %s not found", id), "snapshot not found", http.StatusNotFound)
		return
	}
	s.metrics.sessions.Set(float64(s.store.Len()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	s.writeJsonResp(w, nil, snap, http.StatusOK)
}

func (s *Server) listCommits(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	commits := snap.CommitHistory(r.URL.Query().Get("branch"))
	if commits == nil {
		commits = []*repo.Commit{}
	}
	s.writeJsonResp(w, nil, commits, http.StatusOK)
}

func (s *Server) listBranches(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	s.writeJsonResp(w, nil, snap.Branches, http.StatusOK)
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	s.writeJsonResp(w, nil, snap.Tags, http.StatusOK)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	s.writeJsonResp(w, nil, snap.Stats(), http.StatusOK)
}

func (s *Server) getCommit(w http.ResponseWriter, r *http.Request) {
	_, c, ok := s.commit(w, r)
	if !ok {
		return
	}
	s.writeJsonResp(w, nil, c, http.StatusOK)
}

func (s *Server) commitChanges(w http.ResponseWriter, r *http.Request) {
	snap, c, ok := s.commit(w, r)
	if !ok {
		return
	}
	changes, err := snap.CommitChanges(c.Hash)
	if errors.Is(err, repo.ErrTreeTooLarge) {
		s.writeJsonResp(w, err, "tree too large", http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		s.writeJsonResp(w, err, "tree not available", http.StatusNotFound)
		return
	}
	if changes == nil {
		changes = []repo.TreeChange{}
	}
	s.writeJsonResp(w, nil, changes, http.StatusOK)
}

func (s *Server) fileAtCommit(w http.ResponseWriter, r *http.Request) {
	snap, c, ok := s.commit(w, r)
	if !ok {
		return
	}
	p := mux.Vars(r)["path"]
	blob, err := snap.FileAtCommit(c.Hash, p)
	if err != nil {
		s.writeJsonResp(w, err, "file not found", http.StatusNotFound)
		return
	}
	s.writeJsonResp(w, nil, map[string]interface{}{
		"commit":  c.Hash,
		"path":    p,
		"size":    blob.Size,
		"content": blob.Content,
	}, http.StatusOK)
}

func (s *Server) getObject(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	h, err := object.ParseHash(mux.Vars(r)["hash"])
	if err != nil {
		s.writeJsonResp(w, err, "invalid object hash", http.StatusBadRequest)
		return
	}
	obj, found := snap.Object(h)
	if !found {
		s.writeJsonResp(w, fmt.Errorf("object %s not found", h), "object not found", http.StatusNotFound)
		return
	}
	s.writeJsonResp(w, nil, map[string]interface{}{
		"hash":   h,
		"type":   obj.Type(),
		"object": obj,
	}, http.StatusOK)
}

// exportSnapshot streams the export document; "?compress=zstd" returns it
// zstd-compressed as a download.
func (s *Server) exportSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	compress := export.WantsZstd(r.URL.Query().Get("compress"))
	if compress {
		w.Header().Set("Content-Type", "application/zstd")
		w.Header().Set("Content-Disposition", `attachment; filename="snapshot.json.zst"`)
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	if err := export.Write(w, snap, compress); err != nil {
		s.log.Warnw("export failed", "id", mux.Vars(r)["id"], "err", err)
	}
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func (s *Server) session(id string) (*repo.Session, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	return s.store.Get(id)
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (*repo.Snapshot, bool) {
	id := mux.Vars(r)["id"]
	sess, ok := s.session(id)
	if !ok {
		s.writeJsonResp(w, fmt.Errorf("snapshot %s not found", id), "snapshot not found", http.StatusNotFound)
		return nil, false
	}
	snap, ok := sess.Snapshot()
	if !ok {
		s.writeJsonResp(w, fmt.Errorf("snapshot %s has no data", id), "snapshot not loaded", http.StatusNotFound)
		return nil, false
	}
	return snap, true
}

func (s *Server) commit(w http.ResponseWriter, r *http.Request) (*repo.Snapshot, *repo.Commit, bool) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return nil, nil, false
	}
	rev := mux.Vars(r)["rev"]
	h, err := snap.ResolveRevision(rev)
	if err != nil {
		status := http.StatusNotFound
		if errors.Is(err, repo.ErrAmbiguousRevision) {
			status = http.StatusBadRequest
		}
		s.writeJsonResp(w, err, "unknown commit", status)
		return nil, nil, false
	}
	c, ok := snap.Commit(h)
	if !ok {
		s.writeJsonResp(w, fmt.Errorf("%s is not a commit", h), "unknown commit", http.StatusNotFound)
		return nil, nil, false
	}
	return snap, c, true
}

// load extracts the uploaded archive and parses it into sess. The archive is
// either the "file" part of a multipart form or the raw request body, in
// which case the "name" query parameter carries the file name.
func (s *Server) load(w http.ResponseWriter, r *http.Request, sess *repo.Session) (*repo.Snapshot, int, error) {
	start := time.Now()
	limits := s.cfg.Limits()
	if limits.MaxArchiveBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limits.MaxArchiveBytes+multipartSlack)
	}

	name, body, err := uploadBody(r)
	if err != nil {
		s.metrics.parses.WithLabelValues("bad_request").Inc()
		return nil, uploadStatus(err), err
	}
	entries, err := archive.Read(r.Context(), name, body, limits)
	if err != nil {
		s.metrics.parses.WithLabelValues("bad_archive").Inc()
		s.log.Warnw("rejecting upload", "name", name, "err", err)
		return nil, uploadStatus(err), err
	}

	snap, err := sess.Load(r.Context(), entries)
	s.metrics.parseDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.parses.WithLabelValues("failed").Inc()
		s.log.Warnw("parse failed", "name", name, "err", err)
		return nil, uploadStatus(err), err
	}

	s.metrics.parses.WithLabelValues("ok").Inc()
	for typ, n := range snap.Report.Objects {
		s.metrics.objectsDecoded.WithLabelValues(string(typ)).Add(float64(n))
	}
	s.metrics.objectsDropped.Add(float64(len(snap.Report.DroppedObjects)))
	return snap, http.StatusOK, nil
}

func uploadBody(r *http.Request) (string, io.Reader, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "multipart/") {
		return r.URL.Query().Get("name"), r.Body, nil
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return "", nil, fmt.Errorf("upload: %w", err)
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return "", nil, errors.New("upload: missing \"file\" form field")
		}
		if err != nil {
			return "", nil, fmt.Errorf("upload: %w", err)
		}
		if part.FormName() == "file" {
			return part.FileName(), part, nil
		}
	}
}

func uploadStatus(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, repo.ErrNoMetadata):
		return http.StatusUnprocessableEntity
	case errors.Is(err, archive.ErrTooLarge), errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, archive.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadRequest
	}
}

func summarize(id string, snap *repo.Snapshot) snapshotSummary {
	return snapshotSummary{
		ID:       id,
		Head:     snap.Head,
		Commits:  len(snap.Commits),
		Branches: snap.Branches,
		Tags:     snap.Tags,
		Report:   snap.Report,
	}
}
