package api

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/tcfw/dancechain/pkg/block"
	"github.com/tcfw/dancechain/pkg/storage"
)

const (
	msgAccepted            = "Block accepted"
	msgExpectedContentType = "Expected Content-Type: application/json"
	msgInvalidJSON         = "Invalid JSON format"
)

func (s *Server) blocks(w http.ResponseWriter, r *http.Request) {
	codec := block.CodecJSON
	if strings.Contains(r.Header.Get("Accept"), block.ContentTypeMsgpack) {
		codec = block.CodecMsgpack
	}

	d, err := block.Marshal(codec, s.store.All())
	if err != nil {
		s.logger.WithError(err).Error("encoding blocks")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", codec.ContentType())
	w.Write(d)
}

func (s *Server) postBlock(w http.ResponseWriter, r *http.Request) {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mt != block.ContentTypeJSON {
		s.reject(w, "content_type", msgExpectedContentType)
		return
	}

	d, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.reject(w, "json", msgInvalidJSON)
		return
	}

	b := &block.Block{}
	if err := json.Unmarshal(d, b); err != nil {
		s.logger.WithError(err).Warn("JSON parse error")
		s.reject(w, "json", msgInvalidJSON)
		return
	}

	if err := s.store.Put(b); err != nil {
		s.reject(w, rejectReason(err), err.Error())
		return
	}

	s.metrics.Accepted.Inc()
	s.metrics.Blocks.Set(float64(s.store.Len()))
	s.logger.WithField("nonce", b.Nonce).WithField("miner", b.Miner).Debug("accepted block")

	writeText(w, http.StatusOK, msgAccepted)
}

func (s *Server) reject(w http.ResponseWriter, reason string, msg string) {
	s.metrics.Rejected.WithLabelValues(reason).Inc()
	writeText(w, http.StatusBadRequest, msg)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, storage.ErrAlreadyExists):
		return "duplicate"
	case errors.Is(err, block.ErrInvalidMiner):
		return "miner"
	case errors.Is(err, block.ErrInvalidDanceMove):
		return "dancemove"
	case errors.Is(err, block.ErrInvalidProofOfWork):
		return "pow"
	default:
		return "invalid"
	}
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, msg)
}
