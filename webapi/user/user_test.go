package user_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"

	"github.com/amirasaad/backoffice/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type UserTestSuite struct {
	testutils.E2ETestSuite
	testUser *testutils.TestUser
}

func (s *UserTestSuite) SetupTest() {
	s.E2ETestSuite.SetupTest()
	s.testUser = s.CreateTestUser()
}

func (s *UserTestSuite) TestCreateUserVariants() {
	testCases := []struct {
		desc       string
		body       string
		wantStatus int
		wantFields []string
	}{
		{
			desc:       "success",
			body:       `{"username":"newuser","email":"new@example.com","password":"password123"}`,
			wantStatus: fiber.StatusCreated,
		},
		{
			desc:       "invalid body",
			body:       `{"username":`,
			wantStatus: fiber.StatusBadRequest,
		},
		{
			desc:       "every failing field is listed",
			body:       `{"username":"ab","email":"not-an-email","password":"123"}`,
			wantStatus: fiber.StatusBadRequest,
			wantFields: []string{"username", "email", "password"},
		},
		{
			desc:       "duplicate username ignoring case",
			body:       `{"username":"` + "TESTUSER" + s.testUser.Username[len("testuser"):] + `","email":"other@example.com","password":"password123"}`,
			wantStatus: fiber.StatusConflict,
		},
		{
			desc:       "duplicate email",
			body:       `{"username":"someoneelse","email":"` + s.testUser.Email + `","password":"password123"}`,
			wantStatus: fiber.StatusConflict,
		},
	}
	for _, tc := range testCases {
		s.Run(tc.desc, func() {
			resp := s.MakeRequest(http.MethodPost, "/users", tc.body, "")
			s.Equal(tc.wantStatus, resp.StatusCode)
			if len(tc.wantFields) > 0 {
				p := s.Problem(resp)
				s.ElementsMatch(tc.wantFields, testutils.Fields(p))
			}
		})
	}
}

func (s *UserTestSuite) TestCreateUserHidesPassword() {
	resp := s.MakeRequest(http.MethodPost, "/users",
		`{"username":"hidden","email":"hidden@example.com","password":"password123"}`, "")
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	var out map[string]any
	s.Decode(resp, &out)
	s.NotContains(out, "password")
	s.Equal("USER", out["role"])
	s.Equal(false, out["isDeleted"])
	s.NotEmpty(out["createdAt"])
}

func (s *UserTestSuite) TestMe() {
	resp := s.MakeRequest(http.MethodGet, "/users/me", "", s.testUser.Token)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var out struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	s.Decode(resp, &out)
	s.Equal(s.testUser.ID, out.ID)
	s.Equal(s.testUser.Username, out.Username)
}

func (s *UserTestSuite) TestAuthRequired() {
	resp := s.MakeRequest(http.MethodGet, "/users/me", "", "")
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)

	resp = s.MakeRequest(http.MethodGet, "/users/me", "", "not-a-token")
	s.Equal(fiber.StatusUnauthorized, resp.StatusCode)
}

func (s *UserTestSuite) TestListRequiresAdmin() {
	resp := s.MakeRequest(http.MethodGet, "/users", "", s.testUser.Token)
	s.Equal(fiber.StatusForbidden, resp.StatusCode)

	admin := s.CreateTestAdmin()
	resp = s.MakeRequest(http.MethodGet, "/users?page=1&pageSize=10", "", admin.Token)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var out []map[string]any
	s.Decode(resp, &out)
	s.Len(out, 2)

	resp = s.MakeRequest(http.MethodGet, "/users?page=zero", "", admin.Token)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *UserTestSuite) TestGetOtherUserForbidden() {
	other := s.CreateTestUser()
	resp := s.MakeRequest(http.MethodGet, "/users/"+other.ID, "", s.testUser.Token)
	s.Equal(fiber.StatusForbidden, resp.StatusCode)

	resp = s.MakeRequest(http.MethodGet, "/users/01J000000000000000000000XX", "", s.CreateTestAdmin().Token)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func (s *UserTestSuite) TestUpdateUser() {
	resp := s.MakeRequest(http.MethodPut, "/users/"+s.testUser.ID,
		`{"email":"changed@example.com","role":"ADMIN"}`, s.testUser.Token)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var out struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	s.Decode(resp, &out)
	s.Equal("changed@example.com", out.Email)
	s.Equal("USER", out.Role)

	resp = s.MakeRequest(http.MethodPut, "/users/"+s.testUser.ID, `{"email":"nope"}`, s.testUser.Token)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *UserTestSuite) TestDeleteUser() {
	resp := s.MakeRequest(http.MethodDelete, "/users/"+s.testUser.ID, "", s.testUser.Token)
	s.Require().Equal(fiber.StatusNoContent, resp.StatusCode)

	admin := s.CreateTestAdmin()
	resp = s.MakeRequest(http.MethodGet, "/users/"+s.testUser.ID, "", admin.Token)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
	resp = s.MakeRequest(http.MethodGet, "/users/"+s.testUser.ID+"?includeDeleted=true", "", admin.Token)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var out struct {
		IsDeleted bool `json:"isDeleted"`
	}
	s.Decode(resp, &out)
	s.True(out.IsDeleted)

	resp = s.MakeRequest(http.MethodPost, "/users",
		`{"username":"`+s.testUser.Username+`","email":"again@example.com","password":"password123"}`, "")
	s.Equal(fiber.StatusConflict, resp.StatusCode)
}

func (s *UserTestSuite) TestUploadAvatar() {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	s.Require().NoError(png.Encode(&buf, img))

	resp := s.Upload(http.MethodPut, "/users/"+s.testUser.ID+"/avatar", "me.png", buf.Bytes(), s.testUser.Token)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var out struct {
		Avatar string `json:"avatar"`
	}
	s.Decode(resp, &out)
	s.Contains(out.Avatar, "/uploads/")

	resp = s.Upload(http.MethodPut, "/users/"+s.testUser.ID+"/avatar", "notes.txt", []byte("plain text"), s.testUser.Token)
	s.Equal(fiber.StatusUnsupportedMediaType, resp.StatusCode)

	resp = s.MakeRequest(http.MethodPut, "/users/"+s.testUser.ID+"/avatar", "", s.testUser.Token)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func TestUserTestSuite(t *testing.T) {
	suite.Run(t, new(UserTestSuite))
}
