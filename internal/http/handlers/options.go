package handlers

import (
	"net/http"

	"golang.org/x/text/cases"

	"travelshot/internal/descriptor"
	"travelshot/internal/middleware"
)

type option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type optionsResponse struct {
	TimeOfDay []option          `json:"time_of_day"`
	SceneType []option          `json:"scene_type"`
	ShotType  []option          `json:"shot_type"`
	Defaults  map[string]string `json:"defaults"`
}

// Options lists the preference keys clients may submit.
func (a *App) Options(w http.ResponseWriter, r *http.Request) {
	title := cases.Title(middleware.LocaleFromContext(r.Context()))

	resp := optionsResponse{
		Defaults: map[string]string{
			"time_of_day": descriptor.DefaultTime,
			"scene_type":  descriptor.DefaultScene,
			"shot_type":   descriptor.DefaultShot,
		},
	}
	for _, k := range descriptor.TimeKeys() {
		resp.TimeOfDay = append(resp.TimeOfDay, option{Key: k, Label: title.String(descriptor.Lighting(k).Label)})
	}
	for _, k := range descriptor.SceneKeys() {
		resp.SceneType = append(resp.SceneType, option{Key: k, Label: title.String(descriptor.Place(k).Label)})
	}
	for _, k := range descriptor.ShotKeys() {
		resp.ShotType = append(resp.ShotType, option{Key: k, Label: title.String(descriptor.Shot(k).Label)})
	}
	a.json(w, http.StatusOK, resp)
}
