package server

import (
	"net/http"
	"strconv"

	"github.com/caraudioevents/subdesigner/pkg/area"
	"github.com/caraudioevents/subdesigner/pkg/classify"
	"github.com/caraudioevents/subdesigner/pkg/enclosure"
	"github.com/caraudioevents/subdesigner/pkg/sealed"
	"github.com/caraudioevents/subdesigner/pkg/spec"
	"github.com/caraudioevents/subdesigner/pkg/validation"
	"github.com/caraudioevents/subdesigner/pkg/wiring"
)

// AreaRequest selects cone or port area for count identical units.
type AreaRequest struct {
	Kind       string          `json:"kind"` // cone|port
	Shape      string          `json:"shape"`
	Dimensions area.Dimensions `json:"dimensions"`
	Count      int             `json:"count"`
}

// SealedRequest asks for the sealed response in NetVolumeL liters and,
// optionally, the volume that would give TargetQtc.
type SealedRequest struct {
	Driver     spec.DriverSpecs `json:"driver"`
	NetVolumeL float64          `json:"net_volume_l"`
	TargetQtc  float64          `json:"target_qtc,omitempty"`
}

// SealedResponse is the sealed calculator output.
type SealedResponse struct {
	*sealed.Response
	VolumeForTargetL float64 `json:"volume_for_target_l,omitempty"`
}

func (s *Server) handleArea(w http.ResponseWriter, r *http.Request) {
	var req AreaRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var (
		res area.Area
		err error
	)
	switch req.Kind {
	case "cone", "":
		res, err = area.ConeArea(req.Shape, req.Dimensions, req.Count)
	case "port":
		res, err = area.PortArea(req.Shape, req.Dimensions, req.Count)
	default:
		err = validation.Invalid("kind", req.Kind, "cone|port")
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTuning(w http.ResponseWriter, r *http.Request) {
	var in enclosure.TuningInput
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := enclosure.Tune(in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSealed(w http.ResponseWriter, r *http.Request) {
	var req SealedRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := sealed.Calculate(req.Driver, req.NetVolumeL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := SealedResponse{Response: res}
	if req.TargetQtc > 0 {
		out.VolumeForTargetL, err = sealed.VolumeForQtc(req.Driver, req.TargetQtc)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleWiring(w http.ResponseWriter, r *http.Request) {
	var in wiring.Input
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := wiring.Calculate(in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classify.Request
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.engine.Classify(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.ObserveClassification(res.Organization, res.Matched())
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleOrganizations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Organizations())
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var d spec.Design
	if err := decode(w, r, &d); err != nil {
		s.writeError(w, r, err)
		return
	}
	ev, err := s.evaluate(&d)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, evaluationStatus(ev), ev)
}

func (s *Server) handleProjectDesign(w http.ResponseWriter, r *http.Request) {
	if s.projectPath == "" {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "no project configured"})
		return
	}
	d, err := spec.LoadProject(s.projectPath)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ev, err := s.evaluate(d)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, evaluationStatus(ev), ev)
}

func (s *Server) handleSaveDesign(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotImplemented, errorBody{Error: "design storage is disabled"})
		return
	}
	var d spec.Design
	if err := decode(w, r, &d); err != nil {
		s.writeError(w, r, err)
		return
	}
	ev, err := s.evaluate(&d)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ev.Evaluation == nil {
		writeJSON(w, http.StatusUnprocessableEntity, ev)
		return
	}
	saved, err := s.store.Save(r.Context(), &d)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ev.ID = saved.ID
	w.Header().Set("Location", "/api/designs/"+saved.ID)
	writeJSON(w, http.StatusCreated, ev)
}

func (s *Server) handleListDesigns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotImplemented, errorBody{Error: "design storage is disabled"})
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, r, validation.Invalid("limit", v, "positive integer"))
			return
		}
		limit = n
	}
	rows, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleGetDesign(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotImplemented, errorBody{Error: "design storage is disabled"})
		return
	}
	saved, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ev, err := s.evaluate(saved.Design)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ev.ID = saved.ID
	writeJSON(w, evaluationStatus(ev), ev)
}
