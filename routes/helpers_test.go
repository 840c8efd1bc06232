package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rag-document-backend/internal/config"
	"rag-document-backend/internal/store"
	"rag-document-backend/middleware"
	"rag-document-backend/models"
	"rag-document-backend/services"
	"rag-document-backend/utils"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[user.Email]; exists {
		return store.ErrEmailExists
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

type fakeChunkStore struct {
	searchResults []models.SearchResult
	searchErr     error
	files         []models.FileSummary
	deleteCount   int64
	deleteErr     error

	lastSearchOwner uuid.UUID
	lastTopK        int
	lastListOwner   uuid.UUID
	lastDeleteOwner uuid.UUID
	lastDeleteFile  string
}

func (f *fakeChunkStore) SearchOwned(_ context.Context, ownerID uuid.UUID, _ []float32, topK int) ([]models.SearchResult, error) {
	f.lastSearchOwner = ownerID
	f.lastTopK = topK
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResults, nil
}

func (f *fakeChunkStore) ListOwned(_ context.Context, ownerID uuid.UUID) ([]models.FileSummary, error) {
	f.lastListOwner = ownerID
	return f.files, nil
}

func (f *fakeChunkStore) DeleteOwned(_ context.Context, ownerID uuid.UUID, filename string) (int64, error) {
	f.lastDeleteOwner = ownerID
	f.lastDeleteFile = filename
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	return f.deleteCount, nil
}

type fakeAI struct {
	embedding []float32
	embedErr  error
	answer    string
	answerErr error

	streamChunks []string
	streamErr    error

	lastSystem  string
	lastHistory []models.ChatTurn
	lastPrompt  string
}

func (f *fakeAI) Embed(_ context.Context, _ string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	if f.embedding != nil {
		return f.embedding, nil
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeAI) Answer(_ context.Context, system string, history []models.ChatTurn, prompt string) (string, error) {
	f.lastSystem = system
	f.lastHistory = history
	f.lastPrompt = prompt
	if f.answerErr != nil {
		return "", f.answerErr
	}
	return f.answer, nil
}

func (f *fakeAI) Stream(ctx context.Context, system string, history []models.ChatTurn, prompt string, fn func(ctx context.Context, chunk []byte) error) error {
	f.lastSystem = system
	f.lastHistory = history
	f.lastPrompt = prompt
	if f.streamErr != nil {
		return f.streamErr
	}
	for _, chunk := range f.streamChunks {
		if err := fn(ctx, []byte(chunk)); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAI) EmbeddingModel() string { return "fake-embed" }

func (f *fakeAI) LLMModel() string { return "fake-llm" }

type fakeIngestor struct {
	resp *models.UploadResponse
	err  error

	lastOwner uuid.UUID
	lastDoc   services.UploadedDocument
}

func (f *fakeIngestor) IngestFile(_ context.Context, ownerID uuid.UUID, doc services.UploadedDocument) (*models.UploadResponse, error) {
	f.lastOwner = ownerID
	f.lastDoc = doc
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type testEnv struct {
	router *gin.Engine
	cfg    *config.Config
	users  *fakeUserStore
	chunks *fakeChunkStore
	ai     *fakeAI
	ingest *fakeIngestor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:      "routes-test-secret",
		JWTExpiresIn:   "30m",
		BcryptCost:     4,
		MaxFileSize:    1 << 20,
		FileStorageDir: t.TempDir(),
	}

	env := &testEnv{
		cfg:    cfg,
		users:  newFakeUserStore(),
		chunks: &fakeChunkStore{},
		ai:     &fakeAI{},
		ingest: &fakeIngestor{},
	}

	router := gin.New()
	authMiddleware := middleware.NewAuthMiddleware(cfg, env.users)

	SetupAuthRoutes(router, cfg, env.users)
	SetupPromptRoutes(router)
	SetupDocumentRoutes(router, cfg, authMiddleware, env.ingest, env.chunks, nil)
	SetupQueryRoutes(router, authMiddleware, env.ai, env.chunks, nil)
	SetupChatRoutes(router, authMiddleware, env.ai, env.chunks, nil)

	env.router = router
	return env
}

// seedUser registers a user directly in the fake store and returns a
// valid bearer token for them.
func (env *testEnv) seedUser(t *testing.T, email string) (uuid.UUID, string) {
	t.Helper()

	hash, err := utils.HashPassword("seed-password", env.cfg.BcryptCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := env.users.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	token, err := utils.GenerateJWT(email, env.cfg.JWTSecret, 30*time.Minute)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return user.ID, token
}

func (env *testEnv) do(method, path, token string, body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) doJSON(method, path, token string, body string) *httptest.ResponseRecorder {
	return env.do(method, path, token, []byte(body), "application/json")
}

// multipartFile builds a multipart body with a single "file" part.
func multipartFile(t *testing.T, filename, content string) ([]byte, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return buf.Bytes(), writer.FormDataContentType()
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var resp utils.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v (body %q)", err, w.Body.String())
	}
	return resp
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body %q)", w.Code, want, w.Body.String())
	}
}
