package tests

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"puntoventa/internal/config"
	"puntoventa/internal/dto"
	"puntoventa/internal/middleware"
	"puntoventa/internal/model"
	"puntoventa/internal/repository"
	"puntoventa/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// stubUsuarioRepo is an in-memory UsuarioRepository for testing.
type stubUsuarioRepo struct {
	users map[string]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: make(map[string]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.Username] = u
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	u, ok := r.users[username]
	if !ok || !u.Activo {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	users := make([]model.Usuario, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.users[u.Username] = u
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	for _, u := range r.users {
		if u.ID == id {
			u.Activo = false
			return nil
		}
	}
	return errors.New("not found")
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

const testSecret = "test_jwt_secret_32_chars_minimum!"

func newTestCfg() *config.Config {
	return &config.Config{
		JWTSecret:          testSecret,
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
}

func seedUsuario(t *testing.T, repo *stubUsuarioRepo, username, password, rol string) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	require.NoError(t, err)
	u := &model.Usuario{
		ID: uuid.New(), Username: username, Nombre: "Usuario Prueba",
		PasswordHash: string(hash), Rol: rol, Activo: true,
	}
	repo.users[username] = u
	return u
}

func signToken(t *testing.T, userID, rol string, dur time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID, "username": "testuser", "rol": rol,
		"exp": time.Now().Add(dur).Unix(), "iat": time.Now().Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

// ── Login ─────────────────────────────────────────────────────────────────────

func TestLogin_Exitoso(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUsuario(t, repo, "cajero1", "clave123", "cajero")
	svc := service.NewAuthService(repo, newTestCfg())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "cajero1",
		Password: "clave123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "cajero", resp.User.Rol)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUsuario(t, repo, "cajero1", "clave123", "cajero")
	svc := service.NewAuthService(repo, newTestCfg())

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "cajero1",
		Password: "incorrecta",
	})
	assert.ErrorIs(t, err, service.ErrCredencialesInvalidas)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	svc := service.NewAuthService(newStubUsuarioRepo(), newTestCfg())

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "fantasma",
		Password: "loquesea",
	})
	assert.ErrorIs(t, err, service.ErrCredencialesInvalidas)
}

func TestLogin_UsuarioDesactivado(t *testing.T) {
	repo := newStubUsuarioRepo()
	u := seedUsuario(t, repo, "exempleado", "clave123", "cajero")
	u.Activo = false
	svc := service.NewAuthService(repo, newTestCfg())

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "exempleado",
		Password: "clave123",
	})
	assert.ErrorIs(t, err, service.ErrCredencialesInvalidas)
}

// ── Refresh ───────────────────────────────────────────────────────────────────

func TestRefresh_TokenValido(t *testing.T) {
	repo := newStubUsuarioRepo()
	u := seedUsuario(t, repo, "supervisor1", "clave123", "supervisor")
	svc := service.NewAuthService(repo, newTestCfg())

	refresh := signToken(t, u.ID.String(), u.Rol, 24*time.Hour)
	resp, err := svc.Refresh(context.Background(), refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, u.ID.String(), resp.User.ID)
}

func TestRefresh_TokenExpirado(t *testing.T) {
	repo := newStubUsuarioRepo()
	u := seedUsuario(t, repo, "supervisor1", "clave123", "supervisor")
	svc := service.NewAuthService(repo, newTestCfg())

	refresh := signToken(t, u.ID.String(), u.Rol, -time.Hour)
	_, err := svc.Refresh(context.Background(), refresh)
	assert.Error(t, err)
}

func TestRefresh_UsuarioDesactivado(t *testing.T) {
	repo := newStubUsuarioRepo()
	u := seedUsuario(t, repo, "exempleado", "clave123", "cajero")
	svc := service.NewAuthService(repo, newTestCfg())
	refresh := signToken(t, u.ID.String(), u.Rol, 24*time.Hour)

	u.Activo = false
	_, err := svc.Refresh(context.Background(), refresh)
	assert.ErrorIs(t, err, service.ErrUsuarioInactivo)
}

// ── Gestión de usuarios ───────────────────────────────────────────────────────

func TestCrearUsuario_HashBcrypt(t *testing.T) {
	repo := newStubUsuarioRepo()
	svc := service.NewAuthService(repo, newTestCfg())

	resp, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "nuevo",
		Nombre:   "Nuevo Cajero",
		Password: "secreta1",
		Rol:      "cajero",
	})
	require.NoError(t, err)
	assert.Equal(t, "nuevo", resp.Username)

	// La contraseña nunca se guarda en claro
	stored := repo.users["nuevo"]
	assert.NotEqual(t, "secreta1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreta1")))
}

func TestDesactivarUsuario(t *testing.T) {
	repo := newStubUsuarioRepo()
	u := seedUsuario(t, repo, "saliente", "clave123", "cajero")
	svc := service.NewAuthService(repo, newTestCfg())

	require.NoError(t, svc.DesactivarUsuario(context.Background(), u.ID))
	assert.False(t, repo.users["saliente"].Activo)
}

// ── Middleware ────────────────────────────────────────────────────────────────

func protectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grp := r.Group("/", middleware.JWTAuth(testSecret))
	if len(roles) > 0 {
		grp.Use(middleware.RequireRole(roles...))
	}
	grp.GET("/protegido", func(c *gin.Context) {
		claims := middleware.GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"rol": claims.Rol})
	})
	return r
}

func TestJWTAuth_SinToken(t *testing.T) {
	r := protectedRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_TokenValido(t *testing.T) {
	r := protectedRouter()
	token := signToken(t, uuid.NewString(), "cajero", time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cajero")
}

func TestJWTAuth_TokenExpirado(t *testing.T) {
	r := protectedRouter()
	token := signToken(t, uuid.NewString(), "cajero", -time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_RolInsuficiente(t *testing.T) {
	r := protectedRouter("supervisor", "administrador")
	token := signToken(t, uuid.NewString(), "cajero", time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_RolPermitido(t *testing.T) {
	r := protectedRouter("supervisor", "administrador")
	token := signToken(t, uuid.NewString(), "administrador", time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
