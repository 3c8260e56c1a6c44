package httpapi

import (
	"net/http"

	"scobro-sync/internal/clarizen"
	"scobro-sync/internal/resourcing"

	"github.com/rs/zerolog/log"
)

type resourcingResponse struct {
	Records []resourcing.Record    `json:"records"`
	Summary resourcing.PassSummary `json:"summary"`
}

// handleResourcing runs one flat reconciliation pass. Only an authentication
// failure is fatal; source failures degrade the pass and show up in the
// summary instead.
func (s *Server) handleResourcing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := s.ppm.Authenticate(ctx)
	if err != nil {
		log.Error().Err(err).Msg("PPM authentication failed, aborting pass")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	identity, err := clarizen.ResolveIdentity(ctx, s.ppm, sess, r.URL.Query().Get("user"))
	if err != nil {
		writeError(w, http.StatusBadGateway, "resolving identity: "+err.Error())
		return
	}

	records, summary := s.reconciler.Reconcile(ctx, sess, identity)
	if records == nil {
		records = []resourcing.Record{}
	}
	writeJSON(w, http.StatusOK, resourcingResponse{Records: records, Summary: summary})
}

// handleHierarchy runs the alternate parent/child tree strategy.
func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := s.ppm.Authenticate(ctx)
	if err != nil {
		log.Error().Err(err).Msg("PPM authentication failed, aborting tree fetch")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	identity, err := clarizen.ResolveIdentity(ctx, s.ppm, sess, r.URL.Query().Get("user"))
	if err != nil {
		writeError(w, http.StatusBadGateway, "resolving identity: "+err.Error())
		return
	}

	tree, err := s.tree.FetchTree(ctx, sess, identity)
	if err != nil {
		// Cascade exhaustion on the parent side leaves nothing to nest;
		// degrade to an empty snapshot rather than erroring the UI.
		if clarizen.IsExhausted(err) {
			writeJSON(w, http.StatusOK, resourcing.BuildHierarchy(nil, nil))
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tree)
}
