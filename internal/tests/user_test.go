// internal/tests/user_test.go
package tests

import (
	"net/http"
)

type profileResponse struct {
	User map[string]interface{} `json:"user"`
}

func (suite *APITestSuite) TestProfile() {
	token := suite.signUp("profile@example.com", "Before")

	w := suite.request(http.MethodGet, "/api/users/me/profile", nil, token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var resp profileResponse
	suite.decode(w, &resp)
	suite.Equal("Before", resp.User["displayName"])
	_, hasHash := resp.User["passwordHash"]
	suite.False(hasHash)

	w = suite.request(http.MethodPut, "/api/users/me/profile", map[string]interface{}{
		"displayName": "After",
		"height":      170,
		"bodyType":    "athletic",
	}, token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.decode(w, &resp)
	suite.Equal("After", resp.User["displayName"])
	suite.EqualValues(170, resp.User["height"])
	suite.Equal("athletic", resp.User["bodyType"])

	w = suite.request(http.MethodPut, "/api/users/me/profile", map[string]interface{}{"bodyType": "round"}, token)
	suite.Equal(http.StatusBadRequest, w.Code)
	var failure errorBody
	suite.decode(w, &failure)
	suite.Equal("VALIDATION_ERROR", failure.Code)

	suite.Equal(http.StatusUnauthorized, suite.request(http.MethodGet, "/api/users/me/profile", nil, "").Code)
}
