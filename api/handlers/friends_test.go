package handlers

import (
	"net/http"
	"testing"
)

func TestSendFriendRequestHTTP(t *testing.T) {
	r := setupRouter(t, 2)

	code, _ := doJSON(r, "POST", "/api/v1/friends/request", 1, map[string]int64{"user_id": 2})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}

	// повтор дает машинный код
	code, resp := doJSON(r, "POST", "/api/v1/friends/request", 1, map[string]int64{"user_id": 2})
	if code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
	if resp["error"] != "DUPLICATE_REQUEST" {
		t.Errorf("expected DUPLICATE_REQUEST, got %v", resp["error"])
	}
}

func TestSendFriendRequestSelfHTTP(t *testing.T) {
	r := setupRouter(t, 1)

	code, resp := doJSON(r, "POST", "/api/v1/friends/request", 1, map[string]int64{"user_id": 1})
	if code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
	if resp["error"] != "SELF_REFERENCE" {
		t.Errorf("expected SELF_REFERENCE, got %v", resp["error"])
	}
}

func TestSendFriendRequestUnknownUserHTTP(t *testing.T) {
	r := setupRouter(t, 1)

	code, resp := doJSON(r, "POST", "/api/v1/friends/request", 1, map[string]int64{"user_id": 99})
	if code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}
	if resp["error"] != "USER_NOT_FOUND" {
		t.Errorf("expected USER_NOT_FOUND, got %v", resp["error"])
	}
}

func TestAcceptFlowHTTP(t *testing.T) {
	r := setupRouter(t, 2)

	code, _ := doJSON(r, "POST", "/api/v1/friends/request", 1, map[string]int64{"user_id": 2})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}

	code, _ = doJSON(r, "POST", "/api/v1/friends/accept", 2, map[string]int64{"user_id": 1})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}

	code, resp := doJSON(r, "GET", "/api/v1/user/relation/2", 1, nil)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp["relation"] != "friend" {
		t.Errorf("expected friend relation, got %v", resp["relation"])
	}

	// заявка между друзьями запрещена в обе стороны
	code, resp = doJSON(r, "POST", "/api/v1/friends/request", 2, map[string]int64{"user_id": 1})
	if code != http.StatusBadRequest || resp["error"] != "ALREADY_FRIENDS" {
		t.Errorf("expected 400 ALREADY_FRIENDS, got %d %v", code, resp["error"])
	}
}

func TestCancelRequestHTTP(t *testing.T) {
	r := setupRouter(t, 2)

	doJSON(r, "POST", "/api/v1/friends/request", 1, map[string]int64{"user_id": 2})

	code, _ := doJSON(r, "POST", "/api/v1/friends/cancel", 1, map[string]int64{"user_id": 2})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}

	code, resp := doJSON(r, "POST", "/api/v1/friends/cancel", 1, map[string]int64{"user_id": 2})
	if code != http.StatusNotFound || resp["error"] != "REQUEST_NOT_FOUND" {
		t.Errorf("expected 404 REQUEST_NOT_FOUND, got %d %v", code, resp["error"])
	}
}

func TestUnfriendHTTP(t *testing.T) {
	r := setupRouter(t, 2)

	doJSON(r, "POST", "/api/v1/friends/request", 1, map[string]int64{"user_id": 2})
	doJSON(r, "POST", "/api/v1/friends/accept", 2, map[string]int64{"user_id": 1})

	code, _ := doJSON(r, "POST", "/api/v1/friends/delete", 1, map[string]int64{"user_id": 2})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}

	code, resp := doJSON(r, "POST", "/api/v1/friends/delete", 1, map[string]int64{"user_id": 2})
	if code != http.StatusNotFound || resp["error"] != "FRIENDSHIP_NOT_FOUND" {
		t.Errorf("expected 404 FRIENDSHIP_NOT_FOUND, got %d %v", code, resp["error"])
	}
}

func TestPaginationValidationHTTP(t *testing.T) {
	r := setupRouter(t, 1)

	code, resp := doJSON(r, "GET", "/api/v1/friends/list?page=0", 1, nil)
	if code != http.StatusBadRequest || resp["error"] != "INVALID_PAGE_OR_PAGESIZE" {
		t.Errorf("expected 400 INVALID_PAGE_OR_PAGESIZE, got %d %v", code, resp["error"])
	}

	code, resp = doJSON(r, "GET", "/api/v1/friends/explore?page_size=-1", 1, nil)
	if code != http.StatusBadRequest || resp["error"] != "INVALID_PAGE_OR_PAGESIZE" {
		t.Errorf("expected 400 INVALID_PAGE_OR_PAGESIZE, got %d %v", code, resp["error"])
	}

	code, resp = doJSON(r, "GET", "/api/v1/friends/list?page=abc", 1, nil)
	if code != http.StatusBadRequest || resp["error"] != "INVALID_PAGE_OR_PAGESIZE" {
		t.Errorf("expected 400 INVALID_PAGE_OR_PAGESIZE, got %d %v", code, resp["error"])
	}

	// отсутствующие параметры получают дефолты
	code, _ = doJSON(r, "GET", "/api/v1/friends/list", 1, nil)
	if code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
}

func TestUnauthorizedHTTP(t *testing.T) {
	r := setupRouter(t, 1)

	code, _ := doJSON(r, "GET", "/api/v1/friends/list", 0, nil)
	if code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", code)
	}
}

func TestInvalidBodyHTTP(t *testing.T) {
	r := setupRouter(t, 1)

	code, resp := doJSON(r, "POST", "/api/v1/friends/request", 1, map[string]string{"user_id": "bad"})
	if code != http.StatusBadRequest || resp["error"] != "INVALID_REQUEST" {
		t.Errorf("expected 400 INVALID_REQUEST, got %d %v", code, resp["error"])
	}
}
