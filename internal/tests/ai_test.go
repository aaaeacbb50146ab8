// internal/tests/ai_test.go
package tests

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
)

type aiMeta struct {
	ModelVersion  string   `json:"modelVersion"`
	Height        *float64 `json:"height"`
	BodyType      string   `json:"bodyType"`
	ClothingCount int      `json:"clothingCount"`
	Pose          string   `json:"pose"`
	Note          string   `json:"note"`
}

func (suite *APITestSuite) pngImage() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	suite.Require().NoError(png.Encode(&buf, img))
	return buf.Bytes()
}

func (suite *APITestSuite) upload(path, field, filename string, content []byte, fields map[string]string, token string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		suite.Require().NoError(mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile(field, filename)
	suite.Require().NoError(err)
	_, err = part.Write(content)
	suite.Require().NoError(err)
	suite.Require().NoError(mw.Close())

	req, _ := http.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *APITestSuite) TestRemoveBackgroundReturnsUploadedImage() {
	token := suite.signUp("ai@example.com", "AI")
	original := suite.pngImage()

	w := suite.upload("/api/ai/remove-background", "clothImage", "shirt.png", original, nil, token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		ImageURL string `json:"imageUrl"`
		Meta     aiMeta `json:"meta"`
	}
	suite.decode(w, &resp)
	suite.True(strings.HasPrefix(resp.ImageURL, "/uploads/clothes/"), resp.ImageURL)
	suite.Contains(resp.Meta.Note, "STUB")

	// The stored file is the input, byte for byte
	served := httptest.NewRecorder()
	suite.router.ServeHTTP(served, httptest.NewRequest(http.MethodGet, resp.ImageURL, nil))
	suite.Require().Equal(http.StatusOK, served.Code)
	suite.Equal(original, served.Body.Bytes())
}

func (suite *APITestSuite) TestUploadRejectsNonImages() {
	token := suite.signUp("ai@example.com", "AI")

	w := suite.upload("/api/ai/remove-background", "clothImage", "notes.png", []byte("just some text"), nil, token)
	suite.Equal(http.StatusBadRequest, w.Code)
	var failure errorBody
	suite.decode(w, &failure)
	suite.Equal("Only image files are allowed", failure.Error)
}

func (suite *APITestSuite) TestUploadTooLarge() {
	token := suite.signUp("ai@example.com", "AI")
	big := append(suite.pngImage(), make([]byte, 2<<20)...)

	w := suite.upload("/api/ai/avatar", "faceImage", "face.png", big, nil, token)
	suite.Equal(http.StatusRequestEntityTooLarge, w.Code)
	var failure errorBody
	suite.decode(w, &failure)
	suite.Equal("PAYLOAD_TOO_LARGE", failure.Code)
}

func (suite *APITestSuite) TestUploadRequiresFile() {
	token := suite.signUp("ai@example.com", "AI")

	req, _ := http.NewRequest(http.MethodPost, "/api/ai/remove-background", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestGenerateAvatar() {
	token := suite.signUp("ai@example.com", "AI")

	w := suite.upload("/api/ai/avatar", "faceImage", "face.png", suite.pngImage(), map[string]string{
		"height":   "170",
		"bodyType": "slim",
		"gender":   "female",
	}, token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AvatarURL string `json:"avatarUrl"`
		Meta      aiMeta `json:"meta"`
	}
	suite.decode(w, &resp)
	suite.True(strings.HasPrefix(resp.AvatarURL, "/uploads/avatars/"), resp.AvatarURL)
	suite.Equal("stub-v1.0", resp.Meta.ModelVersion)
	suite.Require().NotNil(resp.Meta.Height)
	suite.Equal(170.0, *resp.Meta.Height)
	suite.Equal("slim", resp.Meta.BodyType)
	suite.NotEmpty(resp.Meta.Note)

	w = suite.upload("/api/ai/avatar", "faceImage", "face.png", suite.pngImage(), map[string]string{"bodyType": "round"}, token)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestTryOn() {
	token := suite.signUp("ai@example.com", "AI")

	w := suite.request(http.MethodPost, "/api/ai/try-on", map[string]interface{}{
		"avatarImageUrl":    "/uploads/avatars/me.png",
		"clothingImageUrls": []string{"/uploads/clothes/a.png", "/uploads/clothes/b.png"},
	}, token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		TryOnImageURL string `json:"tryOnImageUrl"`
		Meta          aiMeta `json:"meta"`
	}
	suite.decode(w, &resp)
	suite.Equal("/uploads/avatars/me.png", resp.TryOnImageURL)
	suite.Equal(2, resp.Meta.ClothingCount)
	suite.Equal("default", resp.Meta.Pose)
	suite.NotEmpty(resp.Meta.Note)

	w = suite.request(http.MethodPost, "/api/ai/try-on", map[string]interface{}{
		"avatarImageUrl": "/uploads/avatars/me.png",
	}, token)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.Equal(http.StatusUnauthorized, suite.request(http.MethodPost, "/api/ai/try-on", nil, "").Code)
}
