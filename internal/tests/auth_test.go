// internal/tests/auth_test.go
package tests

import (
	"net/http"
)

func (suite *APITestSuite) TestUserRegistration() {
	w := suite.request(http.MethodPost, "/api/auth/register", map[string]string{
		"email":       "test@example.com",
		"password":    "TestPass123!",
		"displayName": "Tester",
	}, "")

	suite.Equal(http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.decode(w, &response)
	suite.Equal(true, response["success"])
}

func (suite *APITestSuite) TestDuplicateRegistrationConflicts() {
	body := map[string]string{
		"email":       "dup@example.com",
		"password":    "TestPass123!",
		"displayName": "First",
	}
	suite.Equal(http.StatusOK, suite.request(http.MethodPost, "/api/auth/register", body, "").Code)

	body["email"] = "DUP@example.com"
	w := suite.request(http.MethodPost, "/api/auth/register", body, "")
	suite.Equal(http.StatusConflict, w.Code)

	var resp errorBody
	suite.decode(w, &resp)
	suite.Equal("CONFLICT", resp.Code)
}

func (suite *APITestSuite) TestRegistrationRequiresFields() {
	w := suite.request(http.MethodPost, "/api/auth/register", map[string]string{"email": "a@example.com"}, "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestUserLogin() {
	suite.signUp("login@example.com", "Login")

	w := suite.request(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "login@example.com",
		"password": "wrong",
	}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *APITestSuite) TestMe() {
	token := suite.signUp("me@example.com", "Me")

	w := suite.request(http.MethodGet, "/api/auth/me", nil, token)
	suite.Require().Equal(http.StatusOK, w.Code)

	var me struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	}
	suite.decode(w, &me)
	suite.NotEmpty(me.ID)
	suite.Equal("me@example.com", me.Email)
	suite.Equal("Me", me.DisplayName)

	suite.Equal(http.StatusUnauthorized, suite.request(http.MethodGet, "/api/auth/me", nil, "").Code)
	suite.Equal(http.StatusUnauthorized, suite.request(http.MethodGet, "/api/auth/me", nil, "not-a-token").Code)
}
