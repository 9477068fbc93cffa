package card_test

import (
	"net/http"
	"testing"

	"github.com/amirasaad/backoffice/pkg/domain/card"
	"github.com/amirasaad/backoffice/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type CardTestSuite struct {
	testutils.E2ETestSuite
	owner *testutils.TestUser
	iban  string
}

func (s *CardTestSuite) SetupTest() {
	s.E2ETestSuite.SetupTest()
	s.SeedCatalog()
	s.owner = s.CreateTestUser()
	s.CreateTestClient(s.owner, "12345678Z")
	s.iban = s.OpenTestAccount(s.owner, "CHECKING")
}

type cardOut struct {
	ID         string `json:"id"`
	CardNumber string `json:"cardNumber"`
	IBAN       string `json:"iban"`
	CardType   string `json:"cardType"`
	ExpiresAt  string `json:"expiresAt"`
}

func (s *CardTestSuite) issue(body string) *http.Response {
	return s.MakeRequest(http.MethodPost, "/cards", body, s.owner.Token)
}

func (s *CardTestSuite) TestIssueCard() {
	resp := s.issue(`{"iban":"` + s.iban + `","cardType":"debit","pin":"1234"}`)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	var raw map[string]any
	s.Decode(resp, &raw)
	s.NotContains(raw, "pin")
	s.Equal("DEBIT", raw["cardType"])
	s.Equal(s.iban, raw["iban"])
	number, _ := raw["cardNumber"].(string)
	s.True(card.ValidNumber(number), "generated number %q", number)
	s.NotEmpty(raw["expiresAt"])
}

func (s *CardTestSuite) TestIssueValidation() {
	resp := s.issue(`{"iban":"nope","pin":"12a"}`)
	s.Require().Equal(fiber.StatusBadRequest, resp.StatusCode)
	s.ElementsMatch([]string{"iban", "cardType", "pin"}, testutils.Fields(s.Problem(resp)))

	resp = s.issue(`{"iban":"` + s.iban + `","cardType":"PLATINUM","pin":"1234"}`)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func (s *CardTestSuite) TestIssueConflicts() {
	body := `{"iban":"` + s.iban + `","cardType":"DEBIT","pin":"1234","cardNumber":"4111111111111111"}`
	resp := s.issue(body)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)

	resp = s.issue(`{"iban":"` + s.iban + `","cardType":"CREDIT","pin":"1234"}`)
	s.Equal(fiber.StatusConflict, resp.StatusCode)

	second := s.OpenTestAccount(s.owner, "SAVINGS")
	resp = s.issue(`{"iban":"` + second + `","cardType":"DEBIT","pin":"1234","cardNumber":"4111111111111111"}`)
	s.Equal(fiber.StatusConflict, resp.StatusCode)
}

func (s *CardTestSuite) TestIssueOnForeignAccount() {
	other := s.CreateTestUser()
	s.CreateTestClient(other, "00000000T")
	resp := s.MakeRequest(http.MethodPost, "/cards",
		`{"iban":"`+s.iban+`","cardType":"DEBIT","pin":"1234"}`, other.Token)
	s.Equal(fiber.StatusForbidden, resp.StatusCode)
}

func (s *CardTestSuite) TestGetUpdateDelete() {
	resp := s.issue(`{"iban":"` + s.iban + `","cardType":"DEBIT","pin":"1234"}`)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	var created cardOut
	s.Decode(resp, &created)

	resp = s.MakeRequest(http.MethodGet, "/cards/"+created.ID, "", s.owner.Token)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)

	resp = s.MakeRequest(http.MethodPut, "/cards/"+created.ID, `{"cardType":"credit","pin":"9999"}`, s.owner.Token)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var updated cardOut
	s.Decode(resp, &updated)
	s.Equal("CREDIT", updated.CardType)
	s.Equal(created.CardNumber, updated.CardNumber)

	resp = s.MakeRequest(http.MethodPut, "/cards/"+created.ID, `{"pin":"99"}`, s.owner.Token)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)

	resp = s.MakeRequest(http.MethodGet, "/cards", "", s.owner.Token)
	var list []cardOut
	s.Decode(resp, &list)
	s.Len(list, 1)

	resp = s.MakeRequest(http.MethodDelete, "/cards/"+created.ID, "", s.owner.Token)
	s.Require().Equal(fiber.StatusNoContent, resp.StatusCode)

	resp = s.MakeRequest(http.MethodGet, "/cards/"+created.ID, "", s.owner.Token)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)

	resp = s.issue(`{"iban":"` + s.iban + `","cardType":"DEBIT","pin":"1234"}`)
	s.Equal(fiber.StatusCreated, resp.StatusCode)
}

func TestCardTestSuite(t *testing.T) {
	suite.Run(t, new(CardTestSuite))
}
