package usecase

import (
	"context"
	"log"
)

// Route paths whose cached read models are dropped after a write.
const (
	PathLayout           = "/"
	PathAdminLeads       = "/admin/leads"
	PathRepLeads         = "/rep/leads"
	PathAdminDashboard   = "/admin/dashboard"
	PathRepDashboard     = "/rep/dashboard"
	PathAdminPipeline    = "/admin/pipeline"
	PathRepPipeline      = "/rep/pipeline"
	PathPipelineSettings = "/admin/settings/pipeline"
	PathAdminTemplates   = "/admin/templates"
	PathAdminUsers       = "/admin/users"
	PathRepFollowups     = "/rep/followups"
)

var leadListPaths = []string{PathAdminLeads, PathRepLeads, PathAdminDashboard, PathRepDashboard}

var pipelinePaths = []string{PathPipelineSettings, PathAdminPipeline, PathRepPipeline}

func leadDetailPaths(leadID string) []string {
	return []string{PathAdminLeads + "/" + leadID, PathRepLeads + "/" + leadID}
}

// userKey scopes a cached route to one user.
func userKey(path, userID string) string {
	return path + "|" + userID
}

func revalidate(ctx context.Context, cache RouteCache, paths ...string) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, paths...); err != nil {
		log.Printf("[cache] invalidate %v: %v", paths, err)
	}
}

func cacheGet(ctx context.Context, cache RouteCache, key string, dst any) bool {
	if cache == nil {
		return false
	}
	ok, err := cache.Get(ctx, key, dst)
	if err != nil {
		log.Printf("[cache] get %s: %v", key, err)
		return false
	}
	return ok
}

func cacheSet(ctx context.Context, cache RouteCache, key string, v any) {
	if cache == nil {
		return
	}
	if err := cache.Set(ctx, key, v); err != nil {
		log.Printf("[cache] set %s: %v", key, err)
	}
}
