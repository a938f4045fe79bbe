package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"lendbox/internal/adapter/middleware"
	"lendbox/internal/adapter/repository/gormrepo"
	"lendbox/internal/domain/borrow"
	"lendbox/internal/domain/uow"
	"lendbox/internal/infrastructure/auth"
	"lendbox/internal/infrastructure/blob"
	"lendbox/internal/infrastructure/logging"
	"lendbox/internal/infrastructure/whatsapp"
	"lendbox/internal/testutil/sqlitedb"
	"lendbox/internal/testutil/whatsappmock"
	authuc "lendbox/internal/usecase/auth"
	borrowuc "lendbox/internal/usecase/borrow"
	"lendbox/internal/usecase/dashboard"
	documentuc "lendbox/internal/usecase/document"
	folderuc "lendbox/internal/usecase/folder"
	kycuc "lendbox/internal/usecase/kyc"
	scoringuc "lendbox/internal/usecase/scoring"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	e      *echo.Echo
	repos  uow.Repos
	sender *whatsappmock.Sender
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db := sqlitedb.Open(t)
	repos := gormrepo.Repos(db)
	u := gormrepo.NewGormUoW(db)
	store, err := blob.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	log := logging.Discard()

	sender := &whatsappmock.Sender{}
	tokens := auth.NewTokenManager(strings.Repeat("k", 32), "lendbox", time.Hour)
	twenty := decimal.NewFromInt(20)

	h := Handlers{
		Health: NewHandler(nil),
		Auth: NewAuthHandler(authuc.NewUsecase(u, sender, nil, authuc.Config{
			ValidFor: 5 * time.Minute, MaxAttempts: 3, StorageQuota: 1000,
		}, log), tokens, log),
		Dashboard: NewDashboardHandler(dashboard.NewUsecase(u, twenty, log), log),
		Borrow: NewBorrowHandler(borrowuc.NewUsecase(u, repos, borrowuc.Config{
			FeePercent: decimal.NewFromInt(5), DefaultMax: twenty, Policy: borrow.PolicyHold,
		}, log), log),
		Folders: NewFolderHandler(folderuc.NewUsecase(u, repos, store, log), log),
		Documents: NewDocumentHandler(documentuc.NewUsecase(u, repos, store, documentuc.Config{
			MaxUploadSize: 500, AllowedTypes: []string{".txt", ".pdf"},
		}, log), log),
		KYC: NewKYCHandler(kycuc.NewUsecase(u, repos, store, kycuc.Config{
			DefaultMax: twenty, MaxUploadSize: 500, AllowedTypes: []string{".pdf"},
		}, log), log),
		Referrals: NewReferralHandler(scoringuc.NewUsecase(u, repos, sender, log), log),
	}

	e := echo.New()
	e.Validator = NewValidator()
	Register(e, h, middleware.JWTAuth(tokens), nil)
	return &testAPI{e: e, repos: repos, sender: sender}
}

func (a *testAPI) send(t *testing.T, req *http.Request, token string) *httptest.ResponseRecorder {
	t.Helper()
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return a.send(t, req, token)
}

func (a *testAPI) upload(t *testing.T, path, token string, fields map[string]string, fileField string, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for name, content := range files {
		fw, err := w.CreateFormFile(fileField, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return a.send(t, req, token)
}

func (a *testAPI) login(t *testing.T, phone string) (string, map[string]any) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/auth/request-otp", "", map[string]string{"phone_number": phone})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	last, ok := a.sender.Last()
	require.True(t, ok)
	require.Equal(t, whatsapp.KindOTP, last.Message.Kind)

	rec = a.do(t, http.MethodPost, "/auth/verify-otp", "", map[string]string{
		"phone_number": phone,
		"otp_code":     last.Message.Vars["otp_code"],
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token, body
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var er ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er), rec.Body.String())
	assert.False(t, er.Success)
	return er.Code
}

func idOf(t *testing.T, body map[string]any, key string) string {
	t.Helper()
	obj, ok := body[key].(map[string]any)
	require.True(t, ok, "missing %s in %v", key, body)
	return strconv.FormatFloat(obj["id"].(float64), 'f', 0, 64)
}

func TestAPI_AuthFlow(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/auth/request-otp", "", map[string]string{"phone_number": "12"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errCode(t, rec))

	rec = a.do(t, http.MethodPost, "/auth/verify-otp", "", map[string]string{"phone_number": "+254700000001", "otp_code": "123456"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "otp_not_found", errCode(t, rec))

	rec = a.do(t, http.MethodPost, "/auth/request-otp", "", map[string]string{"phone_number": "+254700000001"})
	require.Equal(t, http.StatusOK, rec.Code)
	last, _ := a.sender.Last()
	wrong := "000000"
	if last.Message.Vars["otp_code"] == wrong {
		wrong = "111111"
	}
	rec = a.do(t, http.MethodPost, "/auth/verify-otp", "", map[string]string{"phone_number": "+254700000001", "otp_code": wrong})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "otp_mismatch", errCode(t, rec))

	_, body := a.login(t, "+254700000001")
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["created"])

	rec = a.do(t, http.MethodGet, "/api/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = a.do(t, http.MethodGet, "/api/dashboard", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_KYCUnlocksBorrowing(t *testing.T) {
	a := newTestAPI(t)
	token, _ := a.login(t, "+254700000002")

	rec := a.do(t, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dash := decode(t, rec)["dashboard"].(map[string]any)
	assert.Equal(t, true, dash["borrow_limit"].(map[string]any)["is_locked"])

	rec = a.do(t, http.MethodPost, "/api/borrow/transactions", token, map[string]string{"amount": "10"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "limit_locked", errCode(t, rec))

	answers := []string{"Ama Mensah", "1990-04-02", "Accra", "+233200000000", "passport", "G123", "yes", "yes", "Fabric", "Stock"}
	var in []map[string]any
	for i, ans := range answers {
		in = append(in, map[string]any{"question_index": i, "answer": ans})
	}
	rec = a.do(t, http.MethodPost, "/api/kyc/answers", token, map[string]any{"answers": in})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, decode(t, rec)["kyc"].(map[string]any)["kyc_level"])

	rec = a.do(t, http.MethodPost, "/api/borrow/transactions", token, map[string]string{"amount": "10.555"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/borrow/transactions", token, map[string]string{"amount": "19.99"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "insufficient_limit", errCode(t, rec))

	rec = a.do(t, http.MethodPost, "/api/borrow/transactions", token, map[string]string{"amount": "10"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tx := decode(t, rec)["transaction"].(map[string]any)
	assert.True(t, decimal.RequireFromString(tx["borrow_fee"].(string)).Equal(decimal.RequireFromString("0.50")))
	assert.True(t, decimal.RequireFromString(tx["amount_debit"].(string)).Equal(decimal.RequireFromString("10.50")))
	assert.Equal(t, "pending", tx["status"])

	txID := strconv.FormatFloat(tx["id"].(float64), 'f', 0, 64)
	rec = a.do(t, http.MethodPost, "/api/borrow/transactions/"+txID+"/repayments", token, map[string]string{"amount": "1"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "invalid_transition", errCode(t, rec))

	rec = a.do(t, http.MethodGet, "/api/borrow/transactions?limit=5", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["transactions"], 1)

	// kyc level 2 documents
	rec = a.upload(t, "/api/kyc/documents", token, map[string]string{"document_type": "business_registration"}, "file", map[string]string{"reg.pdf": "pdf"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = a.upload(t, "/api/kyc/documents", token, map[string]string{"document_type": "electricity_bill"}, "file", map[string]string{"bill.pdf": "pdf"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.EqualValues(t, 2, decode(t, rec)["kyc"].(map[string]any)["kyc_level"])

	rec = a.upload(t, "/api/kyc/documents", token, map[string]string{"document_type": "selfie"}, "file", map[string]string{"me.pdf": "pdf"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_FoldersAndDocuments(t *testing.T) {
	a := newTestAPI(t)
	token, _ := a.login(t, "+254700000003")
	other, _ := a.login(t, "+254700000004")

	rec := a.do(t, http.MethodPost, "/api/folders", token, map[string]any{"name": "loans"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	parent := idOf(t, decode(t, rec), "folder")

	pid, _ := strconv.ParseUint(parent, 10, 64)
	rec = a.do(t, http.MethodPost, "/api/folders", token, map[string]any{"name": "2024", "parent_id": pid})
	require.Equal(t, http.StatusCreated, rec.Code)
	childBody := decode(t, rec)
	child := idOf(t, childBody, "folder")
	assert.Equal(t, "loans/2024", childBody["folder"].(map[string]any)["path"])

	cid, _ := strconv.ParseUint(child, 10, 64)
	rec = a.do(t, http.MethodPut, "/api/folders/"+parent, token, map[string]any{"parent_id": cid})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", errCode(t, rec))

	rec = a.do(t, http.MethodPut, "/api/folders/"+child, token, map[string]any{"name": "archive", "parent_id": nil})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	moved := decode(t, rec)["folder"].(map[string]any)
	assert.Nil(t, moved["parent_id"])
	assert.Equal(t, "archive", moved["path"])

	rec = a.upload(t, "/api/documents", token, map[string]string{"folder_id": parent}, "files", map[string]string{"note.txt": "hello"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	up := decode(t, rec)["upload"].(map[string]any)
	assert.EqualValues(t, 5, up["storage_used"])
	docID := strconv.FormatFloat(up["documents"].([]any)[0].(map[string]any)["id"].(float64), 'f', 0, 64)

	rec = a.upload(t, "/api/documents", token, nil, "files", map[string]string{"virus.exe": "MZ"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "file_type_not_allowed", errCode(t, rec))

	rec = a.upload(t, "/api/documents", token, map[string]string{"folder_id": parent}, "files", map[string]string{"big.txt": strings.Repeat("x", 1001)})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, decode(t, rec)["upload"].(map[string]any)["skipped"], 1)

	rec = a.do(t, http.MethodGet, "/api/documents?folder_id=root", token, nil)
	assert.Len(t, decode(t, rec)["documents"], 0)
	rec = a.do(t, http.MethodGet, "/api/documents?folder_id="+parent, token, nil)
	assert.Len(t, decode(t, rec)["documents"], 1)
	rec = a.do(t, http.MethodGet, "/api/documents?folder_id=nope", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/documents/"+docID+"/download", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "note.txt")

	rec = a.do(t, http.MethodGet, "/api/documents/"+docID, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/folders/"+parent, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	f := decode(t, rec)["folder"].(map[string]any)
	assert.EqualValues(t, 1, f["file_count"])
	assert.EqualValues(t, 5, f["total_size"])

	rec = a.do(t, http.MethodDelete, "/api/folders/"+parent, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = a.do(t, http.MethodGet, "/api/documents/"+docID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_ReferralClaimedOnSignup(t *testing.T) {
	a := newTestAPI(t)
	token, _ := a.login(t, "+254700000005")

	rec := a.do(t, http.MethodPost, "/api/referrals", token, map[string]string{"phone_number": "+254700000006"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	last, _ := a.sender.Last()
	assert.Equal(t, whatsapp.KindInvitation, last.Message.Kind)

	rec = a.do(t, http.MethodPost, "/api/referrals", token, map[string]string{"phone_number": "+254700000006"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	_, body := a.login(t, "+254700000006")
	assert.Equal(t, true, body["referral_claimed"])

	rec = a.do(t, http.MethodGet, "/api/referrals", token, nil)
	refs := decode(t, rec)["referrals"].([]any)
	require.Len(t, refs, 1)
	assert.Equal(t, true, refs[0].(map[string]any)["score_awarded"])

	referrer, err := a.repos.Users.GetByPhone(context.Background(), "+254700000005")
	require.NoError(t, err)
	assert.Equal(t, 10, referrer.Score)
}

func TestAPI_PhoneBills(t *testing.T) {
	a := newTestAPI(t)
	token, _ := a.login(t, "+254700000007")

	rec := a.upload(t, "/api/phone-bills", token, nil, "file", map[string]string{"bill.exe": "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "file_type_not_allowed", errCode(t, rec))

	rec = a.upload(t, "/api/phone-bills", token, nil, "file", map[string]string{"march.pdf": "pdf"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bill := decode(t, rec)["phone_bill"].(map[string]any)
	assert.Equal(t, "march.pdf", bill["file_name"])
	assert.Equal(t, false, bill["verified"])

	rec = a.do(t, http.MethodGet, "/api/phone-bills", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["phone_bills"], 1)

	rec = a.do(t, http.MethodGet, "/api/phone-bills", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
