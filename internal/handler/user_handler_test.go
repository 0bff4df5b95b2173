package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lifedesigner21/whole-pod-sub000/internal/handler"
	"github.com/lifedesigner21/whole-pod-sub000/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func setupUserTest() (*gin.Engine, *MockUserStore) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mockStore := new(MockUserStore)
	userHandler := handler.NewUserHandler(mockStore, "test-secret")

	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)

	return r, mockStore
}

func TestRegister_Success(t *testing.T) {
	router, mockStore := setupUserTest()

	mockStore.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, nil)
	mockStore.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	reqBody := handler.RegisterRequest{
		Email:       "test@example.com",
		DisplayName: "Test User",
		Password:    "password123",
		Role:        model.RoleDesigner,
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Contains(t, resp.Body.String(), "test@example.com")
	mockStore.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	router, mockStore := setupUserTest()

	existing := &model.User{ID: primitive.NewObjectID(), Email: "test@example.com"}
	mockStore.On("FindByEmail", mock.Anything, "test@example.com").Return(existing, nil)

	reqBody := handler.RegisterRequest{
		Email:       "test@example.com",
		DisplayName: "Test User",
		Password:    "password123",
		Role:        model.RoleClient,
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusConflict, resp.Code)
	mockStore.AssertNotCalled(t, "Create")
}

func TestRegister_InvalidRole(t *testing.T) {
	router, _ := setupUserTest()

	body := []byte(`{"email":"x@example.com","display_name":"X","password":"password123","role":"superuser"}`)
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLogin_Success(t *testing.T) {
	router, mockStore := setupUserTest()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &model.User{
		ID:             primitive.NewObjectID(),
		Email:          "test@example.com",
		DisplayName:    "Test User",
		HashedPassword: string(hash),
		Role:           model.RoleAdmin,
	}
	mockStore.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)

	reqBody := handler.LoginRequest{Email: "test@example.com", Password: "password123"}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.AuthResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, user.ID.Hex(), response.UserID)
	assert.Equal(t, model.RoleAdmin, response.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	router, mockStore := setupUserTest()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &model.User{
		ID:             primitive.NewObjectID(),
		Email:          "test@example.com",
		HashedPassword: string(hash),
		Role:           model.RoleClient,
	}
	mockStore.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)

	reqBody := handler.LoginRequest{Email: "test@example.com", Password: "wrong"}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogin_UnknownUser(t *testing.T) {
	router, mockStore := setupUserTest()

	mockStore.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

	reqBody := handler.LoginRequest{Email: "nobody@example.com", Password: "password123"}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
