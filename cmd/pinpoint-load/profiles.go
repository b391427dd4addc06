package main

import (
	"fmt"
	"net/http"
	"time"
)

type target struct {
	Endpoint string
	Method   string
	Path     string
	Weight   int
	Body     func(opts *runOptions) ([]byte, error)
}

type profile struct {
	Name           string
	VUs            int
	Duration       time.Duration
	DefaultP99MS   int
	RequiresWrites bool
	Targets        []target
}

func builtinProfile(name string) (profile, error) {
	switch name {
	case "issues_read":
		return profile{
			Name:         name,
			VUs:          10,
			Duration:     60 * time.Second,
			DefaultP99MS: 300,
			Targets: []target{
				{Endpoint: "GET /api/issues", Method: http.MethodGet, Path: "/api/issues?limit=50", Weight: 60},
				{Endpoint: "GET /api/machines", Method: http.MethodGet, Path: "/api/machines?limit=50", Weight: 25},
				{Endpoint: "GET /api/statuses", Method: http.MethodGet, Path: "/api/statuses", Weight: 10},
				{Endpoint: "GET /api/notifications", Method: http.MethodGet, Path: "/api/notifications?limit=20", Weight: 5},
			},
		}, nil
	case "issues_read_heavy":
		return profile{
			Name:         name,
			VUs:          50,
			Duration:     120 * time.Second,
			DefaultP99MS: 500,
			Targets: []target{
				{Endpoint: "GET /api/issues", Method: http.MethodGet, Path: "/api/issues?limit=50", Weight: 70},
				{Endpoint: "GET /api/machines", Method: http.MethodGet, Path: "/api/machines?limit=50", Weight: 30},
			},
		}, nil
	case "issues_mix_read_write":
		return profile{
			Name:           name,
			VUs:            10,
			Duration:       60 * time.Second,
			DefaultP99MS:   500,
			RequiresWrites: true,
			Targets: []target{
				{Endpoint: "GET /api/issues", Method: http.MethodGet, Path: "/api/issues?limit=50", Weight: 80},
				{Endpoint: "POST /api/issues", Method: http.MethodPost, Path: "/api/issues", Weight: 20, Body: buildCreateIssueBody},
			},
		}, nil
	default:
		return profile{}, fmt.Errorf("unknown profile %q (expected issues_read|issues_read_heavy|issues_mix_read_write)", name)
	}
}
