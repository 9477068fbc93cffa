package catalog_test

import (
	"net/http"
	"testing"

	"github.com/amirasaad/backoffice/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type CatalogTestSuite struct {
	testutils.E2ETestSuite
	admin *testutils.TestUser
	user  *testutils.TestUser
}

func (s *CatalogTestSuite) SetupTest() {
	s.E2ETestSuite.SetupTest()
	s.admin = s.CreateTestAdmin()
	s.user = s.CreateTestUser()
}

type entryOut struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Interest    *float64 `json:"interest"`
	IsDeleted   bool     `json:"isDeleted"`
}

func (s *CatalogTestSuite) create(path, body string) entryOut {
	resp := s.MakeRequest(http.MethodPost, path, body, s.admin.Token)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	var out entryOut
	s.Decode(resp, &out)
	return out
}

func (s *CatalogTestSuite) TestAccountTypeLifecycle() {
	created := s.create("/account-types", `{"name":"premium","description":"High yield","interest":2.25}`)
	s.Equal("PREMIUM", created.Name)
	s.Require().NotNil(created.Interest)
	s.InDelta(2.25, *created.Interest, 0.0001)

	resp := s.MakeRequest(http.MethodGet, "/account-types/"+created.ID, "", s.user.Token)
	s.Equal(fiber.StatusOK, resp.StatusCode)

	resp = s.MakeRequest(http.MethodPut, "/account-types/"+created.ID,
		`{"name":"PREMIUM","description":"Higher yield","interest":3}`, s.admin.Token)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var updated entryOut
	s.Decode(resp, &updated)
	s.Equal("Higher yield", updated.Description)

	resp = s.MakeRequest(http.MethodDelete, "/account-types/"+created.ID, "", s.admin.Token)
	s.Require().Equal(fiber.StatusNoContent, resp.StatusCode)

	resp = s.MakeRequest(http.MethodGet, "/account-types/"+created.ID, "", s.user.Token)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
	resp = s.MakeRequest(http.MethodGet, "/account-types/"+created.ID+"?includeDeleted=true", "", s.admin.Token)
	s.Equal(fiber.StatusOK, resp.StatusCode)

	resp = s.MakeRequest(http.MethodPost, "/account-types", `{"name":"Premium"}`, s.admin.Token)
	s.Equal(fiber.StatusConflict, resp.StatusCode)
}

func (s *CatalogTestSuite) TestWritesRequireAdmin() {
	for _, path := range []string{"/products", "/account-types", "/card-types"} {
		resp := s.MakeRequest(http.MethodPost, path, `{"name":"X"}`, s.user.Token)
		s.Equal(fiber.StatusForbidden, resp.StatusCode, path)

		resp = s.MakeRequest(http.MethodGet, path, "", s.user.Token)
		s.Equal(fiber.StatusOK, resp.StatusCode, path)
	}
}

func (s *CatalogTestSuite) TestValidation() {
	resp := s.MakeRequest(http.MethodPost, "/account-types", `{"name":"  ","interest":-1}`, s.admin.Token)
	s.Require().Equal(fiber.StatusBadRequest, resp.StatusCode)
	s.ElementsMatch([]string{"name", "interest"}, testutils.Fields(s.Problem(resp)))
}

func (s *CatalogTestSuite) TestAccountTypeInUse() {
	s.SeedCatalog()
	s.CreateTestClient(s.user, "12345678Z")
	s.OpenTestAccount(s.user, "CHECKING")

	resp := s.MakeRequest(http.MethodGet, "/account-types", "", s.user.Token)
	var types []entryOut
	s.Decode(resp, &types)
	var checking string
	for _, t := range types {
		if t.Name == "CHECKING" {
			checking = t.ID
		}
	}
	s.Require().NotEmpty(checking)

	resp = s.MakeRequest(http.MethodDelete, "/account-types/"+checking, "", s.admin.Token)
	s.Equal(fiber.StatusConflict, resp.StatusCode)
}

func (s *CatalogTestSuite) TestCardTypeInUse() {
	s.SeedCatalog()
	s.CreateTestClient(s.user, "12345678Z")
	iban := s.OpenTestAccount(s.user, "CHECKING")
	resp := s.MakeRequest(http.MethodPost, "/cards",
		`{"iban":"`+iban+`","cardType":"debit","pin":"1234"}`, s.user.Token)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)

	resp = s.MakeRequest(http.MethodGet, "/card-types", "", s.user.Token)
	var types []entryOut
	s.Decode(resp, &types)
	var debit, credit string
	for _, t := range types {
		switch t.Name {
		case "DEBIT":
			debit = t.ID
		case "CREDIT":
			credit = t.ID
		}
	}
	s.Require().NotEmpty(debit)
	s.Require().NotEmpty(credit)

	resp = s.MakeRequest(http.MethodDelete, "/card-types/"+debit, "", s.admin.Token)
	s.Equal(fiber.StatusConflict, resp.StatusCode)
	resp = s.MakeRequest(http.MethodGet, "/card-types/"+debit, "", s.user.Token)
	s.Equal(fiber.StatusOK, resp.StatusCode)

	resp = s.MakeRequest(http.MethodDelete, "/card-types/"+credit, "", s.admin.Token)
	s.Equal(fiber.StatusNoContent, resp.StatusCode)
}

func (s *CatalogTestSuite) TestCardTypesAndProducts() {
	card := s.create("/card-types", `{"name":"virtual"}`)
	s.Equal("VIRTUAL", card.Name)
	s.Nil(card.Interest)

	product := s.create("/products", `{"name":"Mortgage","description":"Home loans"}`)
	resp := s.MakeRequest(http.MethodGet, "/products", "", s.user.Token)
	var list []entryOut
	s.Decode(resp, &list)
	s.Require().Len(list, 1)
	s.Equal(product.ID, list[0].ID)
}

func TestCatalogTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogTestSuite))
}
