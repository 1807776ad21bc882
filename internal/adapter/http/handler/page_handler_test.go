package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ressKim-io/hatecheck/internal/adapter/repository/memory"
	"github.com/ressKim-io/hatecheck/internal/domain/entity"
	"github.com/ressKim-io/hatecheck/internal/domain/service"
	"github.com/ressKim-io/hatecheck/internal/usecase"
)

// MockClassifier is a mock implementation of service.Classifier
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Predict(ctx context.Context, text string) (*entity.Prediction, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Prediction), args.Error(1)
}

func (m *MockClassifier) PredictBatch(ctx context.Context, texts []string) ([]*entity.Prediction, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Prediction), args.Error(1)
}

func setupPageRouter(classifier service.Classifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	sessionUC := usecase.NewSessionUsecase(memory.NewSessionRepository(), classifier, time.Second, zap.NewNop(), nil)
	h := NewPageHandler(sessionUC, zap.NewNop())

	r := gin.New()
	r.SetHTMLTemplate(PageTemplates())
	r.GET("/", h.Index)
	r.POST("/submit", h.Submit)
	r.POST("/reset", h.Reset)
	return r
}

// openPage loads the page without a cookie and returns the issued session cookie
func openPage(t *testing.T, router *gin.Engine) (*http.Cookie, string) {
	t.Helper()
	req, _ := http.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0], w.Body.String()
}

func getPage(t *testing.T, router *gin.Engine, cookie *http.Cookie) string {
	t.Helper()
	req, _ := http.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func postForm(router *gin.Engine, path string, cookie *http.Cookie, text string) *httptest.ResponseRecorder {
	form := url.Values{"text": {text}}
	req, _ := http.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPageHandler_Index(t *testing.T) {
	t.Run("new visitor gets a session and an idle page", func(t *testing.T) {
		router := setupPageRouter(new(MockClassifier))

		cookie, body := openPage(t, router)

		assert.Equal(t, SessionCookie, cookie.Name)
		_, err := uuid.Parse(cookie.Value)
		assert.NoError(t, err)
		assert.Contains(t, body, "Check Text")
		assert.Contains(t, body, `<button id="submit" type="submit" disabled>`)
		assert.NotContains(t, body, `formaction="/reset"`)
		assert.NotContains(t, body, `class="result`)
	})

	t.Run("same cookie keeps the same session", func(t *testing.T) {
		router := setupPageRouter(new(MockClassifier))
		cookie, _ := openPage(t, router)

		req, _ := http.NewRequest("GET", "/", nil)
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("evicted session is replaced", func(t *testing.T) {
		router := setupPageRouter(new(MockClassifier))

		req, _ := http.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: uuid.New().String()})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, w.Result().Cookies(), 1)
	})
}

func TestPageHandler_Submit(t *testing.T) {
	t.Run("hate result is rendered", func(t *testing.T) {
		classifier := new(MockClassifier)
		classifier.On("Predict", mock.Anything, "you are awful").
			Return(&entity.Prediction{Label: entity.LabelHate, Confidence: 0.87}, nil).Once()
		router := setupPageRouter(classifier)
		cookie, _ := openPage(t, router)

		w := postForm(router, "/submit", cookie, "  you are awful  ")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		body := getPage(t, router, cookie)
		assert.Contains(t, body, `class="result positive"`)
		assert.Contains(t, body, "Hate Speech Detected")
		assert.Contains(t, body, "87.0%")
		assert.Contains(t, body, "width: 87.0%")
		assert.Contains(t, body, `formaction="/reset"`)
		classifier.AssertExpectations(t)
	})

	t.Run("non hate result is rendered", func(t *testing.T) {
		classifier := new(MockClassifier)
		classifier.On("Predict", mock.Anything, "have a nice day").
			Return(&entity.Prediction{Label: entity.LabelNotHate, Confidence: 0.42}, nil).Once()
		router := setupPageRouter(classifier)
		cookie, _ := openPage(t, router)

		postForm(router, "/submit", cookie, "have a nice day")

		body := getPage(t, router, cookie)
		assert.Contains(t, body, `class="result negative"`)
		assert.Contains(t, body, "No Hate Speech Detected")
		assert.Contains(t, body, "42.0%")
	})

	t.Run("empty text shows validation message without a request", func(t *testing.T) {
		classifier := new(MockClassifier)
		router := setupPageRouter(classifier)
		cookie, _ := openPage(t, router)

		w := postForm(router, "/submit", cookie, "   ")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		body := getPage(t, router, cookie)
		assert.Contains(t, body, "Please enter some text to analyze.")
		classifier.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
	})

	t.Run("status error is shown", func(t *testing.T) {
		classifier := new(MockClassifier)
		classifier.On("Predict", mock.Anything, "text").
			Return(nil, &service.StatusError{StatusCode: http.StatusInternalServerError}).Once()
		router := setupPageRouter(classifier)
		cookie, _ := openPage(t, router)

		postForm(router, "/submit", cookie, "text")

		body := getPage(t, router, cookie)
		assert.Contains(t, body, "HTTP error! status: 500")
		assert.NotContains(t, body, `class="result`)
	})
}

func TestPageHandler_Reset(t *testing.T) {
	classifier := new(MockClassifier)
	classifier.On("Predict", mock.Anything, "you are awful").
		Return(&entity.Prediction{Label: entity.LabelHate, Confidence: 0.87}, nil).Once()
	router := setupPageRouter(classifier)
	cookie, _ := openPage(t, router)
	postForm(router, "/submit", cookie, "you are awful")

	w := postForm(router, "/reset", cookie, "you are awful")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	body := getPage(t, router, cookie)
	assert.NotContains(t, body, `class="result`)
	assert.NotContains(t, body, "you are awful")
	assert.NotContains(t, body, `formaction="/reset"`)
	assert.Contains(t, body, `<button id="submit" type="submit" disabled>`)
}
