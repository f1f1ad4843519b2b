package gallery

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pixvault/service/internal/blobstore"
	"github.com/pixvault/service/internal/config"
	"github.com/pixvault/service/internal/response"
)

// multipartMemoryLimit caps the in-memory portion of multipart parsing.
const multipartMemoryLimit = 8 << 20

// Handler holds HTTP handlers for gallery endpoints.
type Handler struct {
	co  *Coordinator
	log *zap.SugaredLogger
}

// NewHandler creates a new gallery Handler.
func NewHandler(co *Coordinator, log *zap.SugaredLogger) *Handler {
	return &Handler{co: co, log: log}
}

type imageCard struct {
	URL         string     `json:"url" example:"http://localhost:9000/gallery/1700000000000_sunset.jpg"`
	DisplayName string     `json:"displayName" example:"sunset.jpg"`
	Key         string     `json:"key" example:"1700000000000_sunset.jpg"`
	UploadedAt  *time.Time `json:"uploadedAt,omitempty"`
}

type gallerySnapshot struct {
	Phase   string      `json:"phase" example:"ready"`
	Loading bool        `json:"loading" example:"false"`
	Images  []imageCard `json:"images"`
	Message string      `json:"message,omitempty" example:"Could not load the gallery. Try refreshing."`
}

func toCard(rec ImageRecord) imageCard {
	card := imageCard{
		URL:         rec.URL,
		DisplayName: rec.Name,
		Key:         rec.Key,
	}
	if !rec.IngestTime.IsZero() {
		t := rec.IngestTime
		card.UploadedAt = &t
	}
	return card
}

func toCards(recs []ImageRecord) []imageCard {
	cards := make([]imageCard, 0, len(recs))
	for _, rec := range recs {
		cards = append(cards, toCard(rec))
	}
	return cards
}

// GetGallery godoc
//
//	@Summary		Gallery snapshot
//	@Description	Returns the coordinator's current phase, loading flag, images, and any transient fetch error message.
//	@Tags			gallery
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=gallerySnapshot}
//	@Router			/gallery [get]
func (h *Handler) GetGallery(w http.ResponseWriter, r *http.Request) {
	snap := h.co.Snapshot()
	response.OK(w, gallerySnapshot{
		Phase:   string(snap.Phase),
		Loading: snap.Loading,
		Images:  toCards(snap.Images),
		Message: snap.Message,
	})
}

// ListImages godoc
//
//	@Summary		List images
//	@Description	Returns the gallery's image cards, newest-known-first.
//	@Tags			gallery
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=[]imageCard}
//	@Router			/images [get]
func (h *Handler) ListImages(w http.ResponseWriter, r *http.Request) {
	snap := h.co.Snapshot()
	response.OK(w, toCards(snap.Images))
}

// UploadImage godoc
//
//	@Summary		Upload an image
//	@Description	Accepts one image as multipart form field "image" and stores it in the gallery bucket. Pass ?uploadId= to pre-register a progress session pollable at /uploads/{id}.
//	@Tags			gallery
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image		formData	file	true	"image file (jpeg, png, gif, or webp, max 5 MiB)"
//	@Param			uploadId	query		string	false	"client-chosen progress session ID"
//	@Success		201	{object}	response.Envelope{data=imageCard}
//	@Failure		400	{object}	response.Envelope
//	@Failure		409	{object}	response.Envelope
//	@Failure		413	{object}	response.Envelope
//	@Failure		415	{object}	response.Envelope
//	@Failure		502	{object}	response.Envelope
//	@Failure		503	{object}	response.Envelope
//	@Router			/images [post]
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	// A little headroom over the acceptance limit so an oversized file is
	// rejected with the validator's wording rather than a connection error.
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes+multipartMemoryLimit)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		h.log.Warnw("invalid multipart form", "error", err)
		response.BadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.log.Warnw("upload without image field", "error", err)
		response.BadRequest(w, `missing form field "image"`)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	body := io.Reader(file)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType, body, err = sniffContentType(file)
		if err != nil {
			response.BadRequest(w, "unreadable file")
			return
		}
	}

	id := h.co.Tracker().Begin(r.URL.Query().Get("uploadId"))
	w.Header().Set("X-Upload-ID", id)

	rec, err := h.co.Upload(r.Context(), File{
		Name:        header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        body,
	}, id)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	response.Created(w, toCard(rec))
}

// writeUploadError maps upload failures to HTTP statuses and user wording.
func (h *Handler) writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotAnImage):
		response.UnsupportedMediaType(w, UserMessage(err))
	case errors.Is(err, ErrTooLarge):
		response.PayloadTooLarge(w, UserMessage(err))
	case errors.Is(err, ErrUploadInFlight):
		response.Conflict(w, ErrUploadInFlight.Error())
	case errors.Is(err, config.ErrNotConfigured):
		response.ServiceUnavailable(w, config.InstructionalMessage)
	case errors.Is(err, blobstore.ErrUnauthorized):
		response.Forbidden(w, UserMessage(err))
	case errors.Is(err, blobstore.ErrCanceled):
		response.BadRequest(w, UserMessage(err))
	default:
		response.BadGateway(w, UserMessage(err))
	}
}

// RefreshGallery godoc
//
//	@Summary		Refresh the gallery
//	@Description	Re-fetches the bucket listing and wholesale replaces the gallery items.
//	@Tags			gallery
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=gallerySnapshot}
//	@Failure		502	{object}	response.Envelope
//	@Failure		503	{object}	response.Envelope
//	@Router			/gallery/refresh [post]
func (h *Handler) RefreshGallery(w http.ResponseWriter, r *http.Request) {
	if err := h.co.Refresh(r.Context()); err != nil {
		if errors.Is(err, config.ErrNotConfigured) {
			response.ServiceUnavailable(w, config.InstructionalMessage)
			return
		}
		response.BadGateway(w, FetchErrorMessage)
		return
	}
	snap := h.co.Snapshot()
	response.OK(w, gallerySnapshot{
		Phase:   string(snap.Phase),
		Loading: snap.Loading,
		Images:  toCards(snap.Images),
	})
}

// UploadProgress godoc
//
//	@Summary		Poll upload progress
//	@Description	Returns percent and state for an upload session. Finished sessions expire after a few minutes.
//	@Tags			gallery
//	@Produce		json
//	@Param			id	path		string	true	"upload session ID"
//	@Success		200	{object}	response.Envelope{data=UploadStatus}
//	@Failure		404	{object}	response.Envelope
//	@Router			/uploads/{id} [get]
func (h *Handler) UploadProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status, ok := h.co.Tracker().Get(id)
	if !ok {
		response.NotFound(w, "unknown upload session")
		return
	}
	response.OK(w, status)
}

// sniffContentType detects the MIME type from the file's first bytes when the
// multipart part carries none. The validator stays the authoritative gate.
func sniffContentType(file io.ReadSeeker) (string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", nil, err
	}
	return http.DetectContentType(head[:n]), file, nil
}
