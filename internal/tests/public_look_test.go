// internal/tests/public_look_test.go
package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/lookmate/lookmate-backend/internal/models"
)

type publicLookResponse struct {
	PublicLook models.PublicLook `json:"publicLook"`
}

type likeResponse struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likesCount"`
}

func (suite *APITestSuite) publishedLook(token string) models.PublicLook {
	item := suite.createItem(token, map[string]interface{}{"category": "onepiece", "imageUrl": "dress", "color": "navy", "memo": "gift"})
	look := suite.createLook(token, "Shared", item["id"].(string))

	w := suite.request(http.MethodPost, "/api/data/public-looks", map[string]string{"lookId": look.ID.String()}, token)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp publicLookResponse
	suite.decode(w, &resp)
	return resp.PublicLook
}

func (suite *APITestSuite) TestPublishIsIdempotent() {
	token := suite.signUp("owner@example.com", "Owner")
	first := suite.publishedLook(token)
	suite.NotEmpty(first.PublicID)
	suite.Equal("Owner", first.OwnerName)

	w := suite.request(http.MethodPost, "/api/data/public-looks", map[string]string{"lookId": first.LookID.String()}, token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var again publicLookResponse
	suite.decode(w, &again)
	suite.Equal(first.PublicID, again.PublicLook.PublicID)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.PublicLook{}).Where("look_id = ?", first.LookID).Count(&count).Error)
	suite.EqualValues(1, count)

	var look models.Look
	suite.Require().NoError(suite.db.First(&look, "id = ?", first.LookID).Error)
	suite.True(look.IsPublic)
	suite.Require().NotNil(look.PublicID)
	suite.Equal(first.PublicID, *look.PublicID)
}

func (suite *APITestSuite) TestPublishRequiresOwner() {
	owner := suite.signUp("owner@example.com", "Owner")
	other := suite.signUp("other@example.com", "Other")
	item := suite.createItem(owner, map[string]interface{}{"category": "onepiece", "imageUrl": "dress"})
	look := suite.createLook(owner, "Mine", item["id"].(string))

	w := suite.request(http.MethodPost, "/api/data/public-looks", map[string]string{"lookId": look.ID.String()}, other)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *APITestSuite) TestFeedIsPublic() {
	token := suite.signUp("owner@example.com", "Owner")
	published := suite.publishedLook(token)

	w := suite.request(http.MethodGet, "/api/data/public-looks?sort=likes&limit=10", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("1", w.Header().Get("X-Total-Count"))

	var resp struct {
		PublicLooks []map[string]interface{} `json:"publicLooks"`
	}
	suite.decode(w, &resp)
	suite.Require().Len(resp.PublicLooks, 1)
	suite.Equal(published.PublicID, resp.PublicLooks[0]["publicId"])
	_, hasViewerState := resp.PublicLooks[0]["liked"]
	suite.False(hasViewerState)

	// Items on the feed carry only public fields
	items := resp.PublicLooks[0]["items"].([]interface{})
	suite.Require().Len(items, 1)
	suite.Equal("navy", items[0].(map[string]interface{})["color"])
	_, hasMemo := items[0].(map[string]interface{})["memo"]
	suite.False(hasMemo)

	w = suite.request(http.MethodGet, "/api/data/public-looks/"+published.PublicID, nil, token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var detail publicLookResponse
	suite.decode(w, &detail)
	suite.Require().NotNil(detail.PublicLook.Liked)
	suite.False(*detail.PublicLook.Liked)
}

func (suite *APITestSuite) TestLikeRoundTrip() {
	owner := suite.signUp("owner@example.com", "Owner")
	viewer := suite.signUp("viewer@example.com", "Viewer")
	published := suite.publishedLook(owner)
	path := "/api/data/public-looks/" + published.PublicID + "/like"

	w := suite.request(http.MethodPost, path, nil, viewer)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp likeResponse
	suite.decode(w, &resp)
	suite.Equal(likeResponse{Liked: true, LikesCount: 1}, resp)

	var rows int64
	suite.Require().NoError(suite.db.Model(&models.UserLike{}).Count(&rows).Error)
	suite.EqualValues(1, rows)

	w = suite.request(http.MethodPost, path, nil, viewer)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &resp)
	suite.Equal(likeResponse{Liked: false, LikesCount: 0}, resp)

	suite.Require().NoError(suite.db.Model(&models.UserLike{}).Count(&rows).Error)
	suite.EqualValues(0, rows)

	w = suite.request(http.MethodPost, "/api/data/public-looks/"+published.PublicID+"/bookmark", nil, viewer)
	suite.Require().Equal(http.StatusOK, w.Code)
	var bookmark struct {
		Bookmarked     bool  `json:"bookmarked"`
		BookmarksCount int64 `json:"bookmarksCount"`
	}
	suite.decode(w, &bookmark)
	suite.True(bookmark.Bookmarked)
	suite.EqualValues(1, bookmark.BookmarksCount)

	suite.Equal(http.StatusNotFound, suite.request(http.MethodPost, "/api/data/public-looks/missing/like", nil, viewer).Code)
	suite.Equal(http.StatusUnauthorized, suite.request(http.MethodPost, path, nil, "").Code)
}

func (suite *APITestSuite) TestConcurrentTogglesNeverGoNegative() {
	owner := suite.signUp("owner@example.com", "Owner")
	published := suite.publishedLook(owner)
	path := "/api/data/public-looks/" + published.PublicID + "/like"

	tokens := make([]string, 5)
	for i := range tokens {
		tokens[i] = suite.signUp(fmt.Sprintf("viewer%d@example.com", i), fmt.Sprintf("Viewer %d", i))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var counts []int64
	for _, token := range tokens {
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(token string) {
				defer wg.Done()
				w := suite.request(http.MethodPost, path, nil, token)
				if w.Code != http.StatusOK {
					return
				}
				var resp likeResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					return
				}
				mu.Lock()
				counts = append(counts, resp.LikesCount)
				mu.Unlock()
			}(token)
		}
	}
	wg.Wait()

	suite.Len(counts, 20)
	for _, c := range counts {
		suite.GreaterOrEqual(c, int64(0))
	}

	// Every viewer toggled an even number of times
	var look models.PublicLook
	suite.Require().NoError(suite.db.First(&look, "public_id = ?", published.PublicID).Error)
	suite.EqualValues(0, look.LikesCount)

	var rows int64
	suite.Require().NoError(suite.db.Model(&models.UserLike{}).Count(&rows).Error)
	suite.EqualValues(0, rows)
}

func (suite *APITestSuite) TestUnpublishAndDeleteCascade() {
	owner := suite.signUp("owner@example.com", "Owner")
	other := suite.signUp("other@example.com", "Other")
	published := suite.publishedLook(owner)

	suite.Equal(http.StatusOK, suite.request(http.MethodPost, "/api/data/public-looks/"+published.PublicID+"/like", nil, other).Code)

	suite.Equal(http.StatusForbidden, suite.request(http.MethodDelete, "/api/data/public-looks/"+published.PublicID, nil, other).Code)
	suite.Equal(http.StatusOK, suite.request(http.MethodDelete, "/api/data/public-looks/"+published.PublicID, nil, owner).Code)

	var look models.Look
	suite.Require().NoError(suite.db.First(&look, "id = ?", published.LookID).Error)
	suite.False(look.IsPublic)
	suite.Nil(look.PublicID)

	var rows int64
	suite.Require().NoError(suite.db.Model(&models.UserLike{}).Count(&rows).Error)
	suite.EqualValues(0, rows)

	// Deleting a published look takes it off the feed
	republished := suite.request(http.MethodPost, "/api/data/public-looks", map[string]string{"lookId": published.LookID.String()}, owner)
	suite.Require().Equal(http.StatusCreated, republished.Code)
	suite.Equal(http.StatusOK, suite.request(http.MethodDelete, "/api/data/looks/"+published.LookID.String(), nil, owner).Code)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.PublicLook{}).Count(&count).Error)
	suite.EqualValues(0, count)
}
