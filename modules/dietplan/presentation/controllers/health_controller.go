package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/evolvinutri/backend/pkg/application"
)

type HealthController struct {
	basePath string
}

func NewHealthController() application.Controller {
	return &HealthController{basePath: "/health"}
}

func (c *HealthController) Key() string {
	return c.basePath
}

func (c *HealthController) Register(r *mux.Router) {
	r.HandleFunc(c.basePath, c.Check).Methods(http.MethodGet)
}

func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
