package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makeup-backend/internal/analyses"
	"makeup-backend/internal/photos"
	"makeup-backend/internal/shared/cache"
	"makeup-backend/internal/shared/config"
	"makeup-backend/internal/vision"
)

func devConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Env:              "dev",
		ObjectStoreType:  "local",
		LocalStoreDir:    t.TempDir(),
		AnalyzerProvider: "mock",
	}
}

func TestBuildDevUsesInMemoryFallbacks(t *testing.T) {
	app, err := Build(devConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.Nil(t, app.DB)
	assert.Nil(t, app.Queue)
	assert.IsType(t, &photos.MemoryRepo{}, app.PhotosRepo)
	assert.IsType(t, &analyses.MemoryRepo{}, app.AnalysesRepo)
	assert.IsType(t, &cache.Memory{}, app.Cache)
	assert.IsType(t, &vision.MockAnalyzer{}, app.Analyzer)
	assert.Same(t, app.AnalysesService, app.AnalysisProcessor)
	require.NotNil(t, app.Router)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBuildProductionRequiresDatabase(t *testing.T) {
	cfg := devConfig(t)
	cfg.Env = "production"

	_, err := Build(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestBuildOpenAIWithoutKeyFallsBackInDev(t *testing.T) {
	cfg := devConfig(t)
	cfg.AnalyzerProvider = "openai"

	app, err := Build(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	assert.Equal(t, "mock", app.Analyzer.Name())
}

func TestBuildAnalyzerOpenAIWithoutKeyFailsOutsideDev(t *testing.T) {
	cfg := devConfig(t)
	cfg.Env = "staging"
	cfg.AnalyzerProvider = "openai"

	_, err := buildAnalyzer(cfg)
	require.ErrorIs(t, err, vision.ErrAnalyzerUnavailable)
}

func TestBuildStoreS3RequiresBucket(t *testing.T) {
	cfg := devConfig(t)
	cfg.ObjectStoreType = "s3"

	_, err := buildStore(t.Context(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET")
}
