package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strconv"

	"github.com/angeloszaimis/join-gateway/internal/metrics"
	"github.com/angeloszaimis/join-gateway/internal/sharecode"
)

const joinPageNotFoundMessage = "join page not found"

// Responder answers a request whose path matched a share code.
type Responder interface {
	Respond(w http.ResponseWriter, r *http.Request, code string)
	Route() metrics.Route
}

type redirectResponder struct {
	redirectPath string
}

// NewRedirectResponder answers join URLs with a 302 pointing at
// redirectPath with the share code as query parameter.
func NewRedirectResponder(redirectPath string) Responder {
	return &redirectResponder{redirectPath: redirectPath}
}

func (rr *redirectResponder) Respond(w http.ResponseWriter, r *http.Request, code string) {
	w.Header().Set("Location", sharecode.RedirectURL(rr.redirectPath, code))
	w.WriteHeader(http.StatusFound)
}

func (rr *redirectResponder) Route() metrics.Route {
	return metrics.RouteJoinRedirect
}

type pageResponder struct {
	templatePath string
}

// NewPageResponder answers join URLs with the contents of the join template
// file. A missing template yields a 404.
func NewPageResponder(templatePath string) Responder {
	return &pageResponder{templatePath: templatePath}
}

func (pr *pageResponder) Respond(w http.ResponseWriter, r *http.Request, code string) {
	body, err := os.ReadFile(pr.templatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.Error(w, joinPageNotFoundMessage, http.StatusNotFound)
			return
		}

		http.Error(w, "failed to read join page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}

	_, _ = w.Write(body)
}

func (pr *pageResponder) Route() metrics.Route {
	return metrics.RouteJoinPage
}
