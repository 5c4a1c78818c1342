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

// AuthAcceptanceTestSuite runs the signup-to-login journey against a real
// HTTP server
type AuthAcceptanceTestSuite struct {
	suite.Suite
	server *httptest.Server
	mocks  *testutil.Mocks
}

// SetupTest runs before each test
func (suite *AuthAcceptanceTestSuite) SetupTest() {
	suite.mocks = testutil.SetupMocks()
	suite.server = httptest.NewServer(testutil.APIRouter())
}

// TearDownTest runs after each test
func (suite *AuthAcceptanceTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *AuthAcceptanceTestSuite) post(path string, payload gin.H, token string) *http.Response {
	data, err := json.Marshal(payload)
	suite.Require().NoError(err)

	req, err := http.NewRequest(http.MethodPost, suite.server.URL+path, bytes.NewBuffer(data))
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	return resp
}

func (suite *AuthAcceptanceTestSuite) decode(resp *http.Response) map[string]interface{} {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)

	var body map[string]interface{}
	suite.Require().NoError(json.Unmarshal(data, &body))
	return body
}

// TestHealthEndpoint verifies the service reports itself healthy
func (suite *AuthAcceptanceTestSuite) TestHealthEndpoint() {
	resp, err := http.Get(suite.server.URL + "/api/v1/health")
	suite.Require().NoError(err)

	suite.Equal(http.StatusOK, resp.StatusCode)
	body := suite.decode(resp)
	suite.Equal("success", body["status"])
	suite.Equal("SkillHub API is running", body["message"])
}

// TestFullSignupJourney walks signup, email verification and login as a
// new user would experience it
func (suite *AuthAcceptanceTestSuite) TestFullSignupJourney() {
	resp := suite.post("/api/v1/auth/signup", gin.H{
		"name": "Jamie", "email": "jamie@example.com",
		"password": "supersecret", "passwordConfirm": "supersecret",
	}, "")
	suite.Require().Equal(http.StatusCreated, resp.StatusCode)
	suite.decode(resp)

	// The verification link lands in the inbox
	sent := suite.mocks.Email.Sent()
	suite.Require().Len(sent, 1)

	verifyResp, err := http.Get(suite.server.URL + "/api/v1/auth/verify-email/" + sent[0].Token)
	suite.Require().NoError(err)
	suite.Equal(http.StatusOK, verifyResp.StatusCode)
	verifyResp.Body.Close()

	// Login works with the registered credentials
	resp = suite.post("/api/v1/auth/login", gin.H{
		"email": "jamie@example.com", "password": "supersecret",
	}, "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	body := suite.decode(resp)
	data := body["data"].(map[string]interface{})
	suite.NotEmpty(data["token"])
	user := data["user"].(map[string]interface{})
	suite.Equal(true, user["emailVerified"])
}

// TestLoginRejectsBadCredentials verifies a wrong password never logs in
func (suite *AuthAcceptanceTestSuite) TestLoginRejectsBadCredentials() {
	resp := suite.post("/api/v1/auth/signup", gin.H{
		"name": "Pat", "email": "pat@example.com",
		"password": "supersecret", "passwordConfirm": "supersecret",
	}, "")
	suite.Require().Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = suite.post("/api/v1/auth/login", gin.H{
		"email": "pat@example.com", "password": "wrongpassword",
	}, "")
	suite.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

// TestAuthAcceptanceTestSuite runs the test suite
func TestAuthAcceptanceTestSuite(t *testing.T) {
	testutil.RequireTestEnvironment(t)
	suite.Run(t, new(AuthAcceptanceTestSuite))
}
