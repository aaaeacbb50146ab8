// internal/tests/closet_test.go
package tests

import (
	"net/http"

	"github.com/lookmate/lookmate-backend/internal/models"
)

type itemResponse struct {
	Item map[string]interface{} `json:"item"`
}

func (suite *APITestSuite) createItem(token string, item map[string]interface{}) map[string]interface{} {
	w := suite.request(http.MethodPost, "/api/data/closet", map[string]interface{}{"item": item}, token)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp itemResponse
	suite.decode(w, &resp)
	return resp.Item
}

func (suite *APITestSuite) TestCreateClosetItemDefaults() {
	token := suite.signUp("owner@example.com", "Owner")

	item := suite.createItem(token, map[string]interface{}{
		"category": "top",
		"imageUrl": "x",
		"color":    "black",
	})

	suite.NotEmpty(item["id"])
	suite.Equal("top", item["category"])
	suite.Equal("x", item["imageUrl"])
	suite.Equal("black", item["color"])
	suite.Equal(false, item["isFavorite"])
	suite.Equal(false, item["isPurchased"])
	price, ok := item["price"]
	suite.True(ok)
	suite.Nil(price)
}

func (suite *APITestSuite) TestCreateClosetItemValidation() {
	token := suite.signUp("owner@example.com", "Owner")

	w := suite.request(http.MethodPost, "/api/data/closet", map[string]interface{}{}, token)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, "/api/data/closet", map[string]interface{}{
		"item": map[string]interface{}{"category": "hat", "imageUrl": "x"},
	}, token)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, "/api/data/closet", map[string]interface{}{
		"item": map[string]interface{}{"category": "top", "imageUrl": "x"},
	}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *APITestSuite) TestNonOwnerCannotDeleteItem() {
	owner := suite.signUp("owner@example.com", "Owner")
	other := suite.signUp("other@example.com", "Other")

	item := suite.createItem(owner, map[string]interface{}{"category": "top", "imageUrl": "x"})
	id := item["id"].(string)

	w := suite.request(http.MethodDelete, "/api/data/closet/"+id, nil, other)
	suite.Equal(http.StatusForbidden, w.Code)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.ClothingItem{}).Where("id = ?", id).Count(&count).Error)
	suite.EqualValues(1, count)

	w = suite.request(http.MethodDelete, "/api/data/closet/"+id, nil, owner)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodDelete, "/api/data/closet/"+id, nil, owner)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestUpdateClosetItemPatch() {
	token := suite.signUp("owner@example.com", "Owner")
	item := suite.createItem(token, map[string]interface{}{"category": "top", "imageUrl": "x", "price": 39000})
	id := item["id"].(string)

	w := suite.request(http.MethodPut, "/api/data/closet/"+id, map[string]interface{}{
		"patch": map[string]interface{}{"isFavorite": true},
	}, token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp itemResponse
	suite.decode(w, &resp)
	suite.Equal(true, resp.Item["isFavorite"])
	suite.EqualValues(39000, resp.Item["price"])

	// An explicit null clears the price
	w = suite.request(http.MethodPut, "/api/data/closet/"+id, map[string]interface{}{
		"patch": map[string]interface{}{"price": nil},
	}, token)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &resp)
	suite.Nil(resp.Item["price"])
	suite.Equal(true, resp.Item["isFavorite"])

	w = suite.request(http.MethodPut, "/api/data/closet/"+id, map[string]interface{}{
		"patch": map[string]interface{}{"price": -1},
	}, token)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestListClosetIsPerUser() {
	owner := suite.signUp("owner@example.com", "Owner")
	other := suite.signUp("other@example.com", "Other")
	suite.createItem(owner, map[string]interface{}{"category": "top", "imageUrl": "x"})

	var resp struct {
		Items []map[string]interface{} `json:"items"`
	}
	w := suite.request(http.MethodGet, "/api/data/closet", nil, other)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &resp)
	suite.Empty(resp.Items)

	w = suite.request(http.MethodGet, "/api/data/closet", nil, owner)
	suite.decode(w, &resp)
	suite.Len(resp.Items, 1)
}

func (suite *APITestSuite) TestRecommendation() {
	token := suite.signUp("owner@example.com", "Owner")
	suite.createItem(token, map[string]interface{}{"category": "top", "imageUrl": "t"})

	w := suite.request(http.MethodGet, "/api/data/recommendation", nil, token)
	suite.Equal(http.StatusNotFound, w.Code)

	suite.createItem(token, map[string]interface{}{"category": "bottom", "imageUrl": "b"})
	w = suite.request(http.MethodGet, "/api/data/recommendation", nil, token)
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Items []map[string]interface{} `json:"items"`
	}
	suite.decode(w, &resp)
	suite.Len(resp.Items, 2)

	w = suite.request(http.MethodGet, "/api/data/recommendation?season=monsoon", nil, token)
	suite.Equal(http.StatusBadRequest, w.Code)
}
