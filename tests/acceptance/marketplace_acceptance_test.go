package acceptance

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/skillhub/skillhub-api/tests/testutil"
	"github.com/stretchr/testify/suite"
)

// MarketplaceAcceptanceTestSuite runs the provider-and-reviewer journey
// against a real HTTP server: listing a service, discovering it through
// filters and rating it
type MarketplaceAcceptanceTestSuite struct {
	suite.Suite
	server        *httptest.Server
	mocks         *testutil.Mocks
	providerToken string
	reviewerToken string
}

// SetupTest runs before each test
func (suite *MarketplaceAcceptanceTestSuite) SetupTest() {
	suite.mocks = testutil.SetupMocks()
	suite.server = httptest.NewServer(testutil.APIRouter())

	suite.providerToken = suite.signup("provider@example.com", "provider")
	suite.reviewerToken = suite.signup("reviewer@example.com", "user")
}

// TearDownTest runs after each test
func (suite *MarketplaceAcceptanceTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *MarketplaceAcceptanceTestSuite) signup(email, role string) string {
	body := suite.decode(suite.request(http.MethodPost, "/api/v1/auth/signup", gin.H{
		"name": "Suite User", "email": email, "role": role,
		"password": "supersecret", "passwordConfirm": "supersecret",
	}, "", http.StatusCreated))
	return body["data"].(map[string]interface{})["token"].(string)
}

func (suite *MarketplaceAcceptanceTestSuite) request(method, path string, payload gin.H, token string, expectedStatus int) *http.Response {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		suite.Require().NoError(err)
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, suite.server.URL+path, reqBody)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	suite.Require().Equal(expectedStatus, resp.StatusCode)
	return resp
}

func (suite *MarketplaceAcceptanceTestSuite) decode(resp *http.Response) map[string]interface{} {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)

	var body map[string]interface{}
	suite.Require().NoError(json.Unmarshal(data, &body))
	return body
}

// TestProviderListsAndUserReviews walks the whole marketplace journey
func (suite *MarketplaceAcceptanceTestSuite) TestProviderListsAndUserReviews() {
	// The provider publishes a listing
	body := suite.decode(suite.request(http.MethodPost, "/api/v1/services", gin.H{
		"title": "House Cleaning", "description": "Thorough weekly cleaning",
		"price": 50, "tags": []string{"Cleaning", "home"},
	}, suite.providerToken, http.StatusCreated))
	serviceID := body["data"].(map[string]interface{})["service"].(map[string]interface{})["id"].(string)

	// Anyone can browse the catalog
	body = suite.decode(suite.request(http.MethodGet, "/api/v1/services?price[lte]=100&sort=-createdAt", nil, "", http.StatusOK))
	suite.Equal(1.0, body["results"])

	// A signed-in user leaves a review
	suite.request(http.MethodPost, "/api/v1/services/"+serviceID+"/reviews", gin.H{
		"rating": 5, "comment": "Could not have gone better",
	}, suite.reviewerToken, http.StatusCreated).Body.Close()

	// The listing now carries the aggregate rating
	body = suite.decode(suite.request(http.MethodGet, "/api/v1/services/"+serviceID, nil, "", http.StatusOK))
	service := body["data"].(map[string]interface{})["service"].(map[string]interface{})
	suite.Equal(5.0, service["averageRating"])
	suite.Equal(1.0, service["totalReviews"])
}

// TestAnonymousCannotReview verifies reviews require a signed-in user
func (suite *MarketplaceAcceptanceTestSuite) TestAnonymousCannotReview() {
	body := suite.decode(suite.request(http.MethodPost, "/api/v1/services", gin.H{
		"title": "Garden Work", "description": "Hedges and lawns",
	}, suite.providerToken, http.StatusCreated))
	serviceID := body["data"].(map[string]interface{})["service"].(map[string]interface{})["id"].(string)

	suite.request(http.MethodPost, "/api/v1/services/"+serviceID+"/reviews", gin.H{
		"rating": 1, "comment": "This should never be stored",
	}, "", http.StatusUnauthorized).Body.Close()
}

// TestMarketplaceAcceptanceTestSuite runs the test suite
func TestMarketplaceAcceptanceTestSuite(t *testing.T) {
	testutil.RequireTestEnvironment(t)
	suite.Run(t, new(MarketplaceAcceptanceTestSuite))
}
