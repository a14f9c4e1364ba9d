package reconciler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	pkgerrors "github.com/velmart/supplyline-backend/pkg/errors"
	"github.com/velmart/supplyline-backend/pkg/types"
)

// ImportClient delivers one supply batch to the retail ledger service.
type ImportClient interface {
	Import(ctx context.Context, retailerPid string, products map[string]int) (contractAid string, err error)
}

type importRequest struct {
	RetailerPid string         `json:"retailer_pid"`
	Products    map[string]int `json:"products"`
}

type importResponse struct {
	Data  *struct {
		ContractAid string `json:"contract_aid"`
	} `json:"data"`
	Error *types.APIError `json:"error"`
}

// HTTPImportClient calls the ledger's import endpoint over HTTP.
type HTTPImportClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPImportClient builds a client against the given base URL.
func NewHTTPImportClient(baseURL string, timeout time.Duration) (*HTTPImportClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("import base url required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPImportClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPImportClient) Import(ctx context.Context, retailerPid string, products map[string]int) (string, error) {
	body, err := json.Marshal(importRequest{RetailerPid: retailerPid, Products: products})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding import request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/import", bytes.NewReader(body))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building import request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling import endpoint")
	}
	defer resp.Body.Close()

	var decoded importResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err,
			fmt.Sprintf("decoding import response (status %d)", resp.StatusCode))
	}

	switch {
	case resp.StatusCode == http.StatusOK && decoded.Data != nil:
		return decoded.Data.ContractAid, nil
	case resp.StatusCode == http.StatusBadRequest:
		typed := pkgerrors.New(pkgerrors.CodeValidation, remoteMessage(decoded, "import rejected"))
		if decoded.Error != nil && decoded.Error.Details != nil {
			typed = typed.WithDetails(decoded.Error.Details)
		}
		return "", typed
	case resp.StatusCode == http.StatusNotFound:
		return "", pkgerrors.New(pkgerrors.CodeNotFound, remoteMessage(decoded, "Retailer not found."))
	default:
		return "", pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("import endpoint returned status %d", resp.StatusCode))
	}
}

func remoteMessage(resp importResponse, fallback string) string {
	if resp.Error != nil && resp.Error.Message != "" {
		return resp.Error.Message
	}
	return fallback
}
