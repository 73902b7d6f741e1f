// internal/app/features/dashboard/actions.go
package dashboard

import (
	"errors"
	"net/http"

	profilestore "github.com/dalemusser/startupinsight/internal/app/store/profiles"
	"github.com/dalemusser/startupinsight/internal/app/system/limits"
	"github.com/dalemusser/startupinsight/internal/app/system/search"
	"github.com/dalemusser/startupinsight/internal/app/system/viewmodel"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxActionFormSize)
	if err := r.ParseForm(); err != nil {
		h.Log.Warn("bad dashboard form", zap.Error(err))
		http.Error(w, "bad request", http.StatusBadRequest)
		return false
	}
	return true
}

// ServeSetQuery handles POST /search/query.
func (h *Handler) ServeSetQuery(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	h.dispatch(w, r, viewmodel.SetQuery{Text: r.PostFormValue("q")})
}

// ServeSetCategory handles POST /search/category. Unknown categories are
// rejected here so the core never sees them.
func (h *Handler) ServeSetCategory(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	raw := r.PostFormValue("category")
	c, ok := search.ParseCategory(raw)
	if !ok {
		h.Log.Debug("unknown category", zap.String("category", raw))
		http.Error(w, "unknown category", http.StatusBadRequest)
		return
	}
	h.dispatch(w, r, viewmodel.SetCategory{Category: c})
}

// ServeSubmit handles POST /search/submit. A form that also carries q sets
// the query first, so a plain HTML form works in one request.
func (h *Handler) ServeSubmit(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	if _, ok := r.PostForm["q"]; ok {
		sess, ok := h.session(w, r)
		if !ok {
			return
		}
		ctx, cancel := h.sessionContext(r)
		_, err := sess.Dispatch(ctx, viewmodel.SetQuery{Text: r.PostFormValue("q")})
		cancel()
		if err != nil {
			h.sessionError(w, r, err)
			return
		}
	}
	h.dispatch(w, r, viewmodel.Submit{})
}

// ServeSelectRecent handles POST /search/recent.
func (h *Handler) ServeSelectRecent(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	h.dispatch(w, r, viewmodel.SelectRecent{Text: r.PostFormValue("q")})
}

// ServeToggleTheme handles POST /theme/toggle.
func (h *Handler) ServeToggleTheme(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, viewmodel.ToggleTheme{})
}

// ServeNavigate handles POST /nav/{tab}.
func (h *Handler) ServeNavigate(w http.ResponseWriter, r *http.Request) {
	tab, ok := viewmodel.ParseTab(chi.URLParam(r, "tab"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.dispatch(w, r, viewmodel.Navigate{Tab: tab})
}

// ServeLoadCompany handles POST /company. It swaps the displayed profile
// for another one from the catalog.
func (h *Handler) ServeLoadCompany(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	name := r.PostFormValue("name")
	p, err := h.Profiles.Get(name)
	if err != nil {
		if errors.Is(err, profilestore.ErrNotFound) {
			http.Error(w, "unknown company", http.StatusNotFound)
			return
		}
		h.Log.Error("profile lookup failed", zap.String("name", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.dispatch(w, r, viewmodel.LoadProfile{Profile: p})
}
