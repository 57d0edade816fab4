package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/docpart/internal/inline"
	"github.com/dgallion1/docpart/internal/partition"
)

const maxInlineBody = 1 << 20

type inlineRequest struct {
	Text string `json:"text"`
}

type inlineResponse struct {
	// Literal is true when the text held no markup and was kept verbatim.
	Literal    bool               `json:"literal"`
	Partitions []partition.Record `json:"partitions"`
}

func (s *Server) handleInline(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxInlineBody)

	var req inlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}

	parts, err := s.tokenizer.Tokenize(req.Text)
	if err != nil {
		if errors.Is(err, inline.ErrNestingTooDeep) {
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := inlineResponse{Literal: parts == nil}
	if resp.Literal {
		parts = []partition.Partition{inline.Literal(req.Text)}
	}
	resp.Partitions = partition.ExportAll(parts)

	if s.cfg.ValidateOutput {
		if err := partition.ValidateRecords(resp.Partitions); err != nil {
			s.log.Error("inline output failed schema check", "error", err)
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
