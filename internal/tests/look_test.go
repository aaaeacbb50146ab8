// internal/tests/look_test.go
package tests

import (
	"net/http"

	"github.com/lookmate/lookmate-backend/internal/models"
)

type lookResponse struct {
	Look models.Look `json:"look"`
}

func (suite *APITestSuite) createLook(token, name string, itemIDs ...string) models.Look {
	layers := make([]map[string]interface{}, 0, len(itemIDs))
	for _, id := range itemIDs {
		layers = append(layers, map[string]interface{}{
			"clothingId": id,
			"x":          0,
			"y":          0,
			"scale":      1,
			"rotation":   0,
			"visible":    true,
		})
	}

	w := suite.request(http.MethodPost, "/api/data/looks", map[string]interface{}{
		"look": map[string]interface{}{"name": name, "layers": layers},
	}, token)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp lookResponse
	suite.decode(w, &resp)
	return resp.Look
}

func (suite *APITestSuite) TestLookKeepsItemSnapshotAfterDelete() {
	token := suite.signUp("owner@example.com", "Owner")
	a := suite.createItem(token, map[string]interface{}{"category": "top", "imageUrl": "a", "color": "red"})
	b := suite.createItem(token, map[string]interface{}{"category": "bottom", "imageUrl": "b", "color": "green"})
	c := suite.createItem(token, map[string]interface{}{"category": "shoes", "imageUrl": "c", "color": "blue"})

	look := suite.createLook(token, "Snapshot", a["id"].(string), b["id"].(string), c["id"].(string))
	suite.Require().Len(look.Items, 3)

	w := suite.request(http.MethodDelete, "/api/data/closet/"+b["id"].(string), nil, token)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, "/api/data/looks/"+look.ID.String(), nil, token)
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp lookResponse
	suite.decode(w, &resp)
	suite.Require().Len(resp.Look.Items, 3)

	var found bool
	for _, item := range resp.Look.Items {
		if item.ID.String() == b["id"].(string) {
			found = true
			suite.Equal("green", item.Color)
			suite.Equal(models.CategoryBottom, item.Category)
		}
	}
	suite.True(found)

	// Layer order survives the round trip
	suite.Require().Len(resp.Look.Layers, 3)
	suite.Equal(a["id"], resp.Look.Layers[0].ClothingID.String())
	suite.Equal(c["id"], resp.Look.Layers[2].ClothingID.String())
}

func (suite *APITestSuite) TestLookIgnoresOtherUsersItems() {
	owner := suite.signUp("owner@example.com", "Owner")
	other := suite.signUp("other@example.com", "Other")
	mine := suite.createItem(owner, map[string]interface{}{"category": "top", "imageUrl": "mine"})
	theirs := suite.createItem(other, map[string]interface{}{"category": "top", "imageUrl": "theirs"})

	look := suite.createLook(owner, "Mixed", mine["id"].(string), theirs["id"].(string))
	suite.Require().Len(look.Items, 1)
	suite.Equal(mine["id"], look.Items[0].ID.String())
}

func (suite *APITestSuite) TestNonOwnerCannotReadOrDeleteLook() {
	owner := suite.signUp("owner@example.com", "Owner")
	other := suite.signUp("other@example.com", "Other")
	item := suite.createItem(owner, map[string]interface{}{"category": "onepiece", "imageUrl": "d"})
	look := suite.createLook(owner, "Mine", item["id"].(string))

	suite.Equal(http.StatusForbidden, suite.request(http.MethodGet, "/api/data/looks/"+look.ID.String(), nil, other).Code)
	suite.Equal(http.StatusForbidden, suite.request(http.MethodDelete, "/api/data/looks/"+look.ID.String(), nil, other).Code)
	suite.Equal(http.StatusOK, suite.request(http.MethodDelete, "/api/data/looks/"+look.ID.String(), nil, owner).Code)
	suite.Equal(http.StatusNotFound, suite.request(http.MethodGet, "/api/data/looks/"+look.ID.String(), nil, owner).Code)
}

func (suite *APITestSuite) TestLookSnapshotDataURLIsStored() {
	token := suite.signUp("owner@example.com", "Owner")
	item := suite.createItem(token, map[string]interface{}{"category": "top", "imageUrl": "x"})

	// 1x1 transparent PNG
	png := "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="
	w := suite.request(http.MethodPost, "/api/data/looks", map[string]interface{}{
		"look": map[string]interface{}{
			"name":        "With preview",
			"itemIds":     []string{item["id"].(string)},
			"snapshotUrl": png,
		},
	}, token)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp lookResponse
	suite.decode(w, &resp)
	suite.Require().NotNil(resp.Look.SnapshotURL)
	suite.Contains(*resp.Look.SnapshotURL, "/uploads/snapshots/")
}
