package api

import (
	"encoding/json"
	"net/http"
	"runtime"
)

// BuildInfo is stamped via -ldflags at build time.
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
}

func (b BuildInfo) withDefaults() BuildInfo {
	if b.Version == "" {
		b.Version = "dev"
	}
	if b.GitCommit == "" {
		b.GitCommit = "unknown"
	}
	if b.BuildDate == "" {
		b.BuildDate = "unknown"
	}
	return b
}

type versionResponse struct {
	BuildInfo
	GoVersion string `json:"go_version"`
}

func VersionHandler(build BuildInfo) http.HandlerFunc {
	body := versionResponse{BuildInfo: build.withDefaults(), GoVersion: runtime.Version()}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(body)
	}
}
