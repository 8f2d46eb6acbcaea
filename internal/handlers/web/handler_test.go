package web

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/KirkDiggler/teamtrivia/internal/services/directory"
	"github.com/KirkDiggler/teamtrivia/internal/services/directory/mocks"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

type WebHandlerTestSuite struct {
	suite.Suite
	mockCtrl      *gomock.Controller
	mockDirectory *mocks.MockService
	mux           *httprouter.Router
}

func (s *WebHandlerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockDirectory = mocks.NewMockService(s.mockCtrl)

	handler, err := New(&Config{
		Directory: s.mockDirectory,
		Version:   "1.2.3",
	})
	s.Require().NoError(err)

	s.mux = httprouter.New()
	handler.Register(s.mux, "/trivia")
}

func (s *WebHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestWebHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(WebHandlerTestSuite))
}

func (s *WebHandlerTestSuite) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (s *WebHandlerTestSuite) TestNewRequiresDirectory() {
	_, err := New(&Config{})
	s.Error(err)
}

func (s *WebHandlerTestSuite) TestHealthAndVersion() {
	rec := s.get("/trivia/healthz")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Ok\n", rec.Body.String())

	rec = s.get("/trivia/version")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("teamtrivia v1.2.3\n", rec.Body.String())
}

func (s *WebHandlerTestSuite) TestRoomQR() {
	s.mockDirectory.EXPECT().
		ResolveRoom(gomock.Any(), &directory.ResolveRoomInput{Code: "abcde"}).
		Return(&directory.ResolveRoomOutput{Room: &models.Room{Code: "ABCDE"}}, nil)

	rec := s.get("/trivia/rooms/abcde/qr.png")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("image/png", rec.Header().Get("Content-Type"))
	s.True(bytes.HasPrefix(rec.Body.Bytes(), pngMagic))
}

func (s *WebHandlerTestSuite) TestRoomQRUnknownRoom() {
	s.mockDirectory.EXPECT().
		ResolveRoom(gomock.Any(), gomock.Any()).
		Return(nil, models.ErrRoomNotFound)

	rec := s.get("/trivia/rooms/zzzzz/qr.png")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *WebHandlerTestSuite) TestRoomQRStoreFailure() {
	s.mockDirectory.EXPECT().
		ResolveRoom(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	rec := s.get("/trivia/rooms/abcde/qr.png")
	s.Equal(http.StatusInternalServerError, rec.Code)
}

func (s *WebHandlerTestSuite) TestJoinURL() {
	handler := &Handler{}
	req := httptest.NewRequest(http.MethodGet, "/rooms/ABCDE/qr.png", nil)
	req.Host = "trivia.example"
	req.Header.Set("X-Forwarded-Proto", "https")
	s.Equal("https://trivia.example/?room=ABCDE", handler.joinURL(req, "ABCDE"))

	handler.publicURL = "https://play.example/t"
	s.Equal("https://play.example/t/?room=ABCDE", handler.joinURL(req, "ABCDE"))
}
