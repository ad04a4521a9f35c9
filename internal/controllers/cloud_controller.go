package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"questlog/internal/cloud"
	"questlog/internal/providers"
	"questlog/internal/services"
	"questlog/internal/structures"
)

// CloudController serves the per-device document slot at /v1/state?id=.
type CloudController struct {
	logger  providers.Logger
	service services.CloudServiceInterface
	maxBody int64
}

// NewCloudController accepts request bodies up to cloud.maxDocumentBytes.
func NewCloudController(conf *structures.Config, logger providers.Logger, service services.CloudServiceInterface) *CloudController {
	maxBody := conf.Cloud.MaxDocumentBytes
	if maxBody <= 0 {
		maxBody = maxRequestBodySize
	}
	return &CloudController{
		logger:  logger,
		service: service,
		maxBody: maxBody,
	}
}

func (cc *CloudController) GetState(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	doc, err := cc.service.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, cloud.ErrNotFound) {
			cc.logger.Errorf(providers.TypeGet, "Read of %q failed: %s", id, err)
		}
		writeError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, doc)
}

func (cc *CloudController) PutState(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	r.Body = http.MaxBytesReader(w, r.Body, cc.maxBody)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, fmt.Errorf("%w: over %d bytes", services.ErrTooLarge, tooLarge.Limit))
			return
		}
		writeError(w, fmt.Errorf("%w: read body: %s", services.ErrInvalidInput, err))
		return
	}
	if err := cc.service.Put(r.Context(), id, body); err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			cc.logger.Errorf(providers.TypePost, "Write of %q failed: %s", id, err)
		}
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
