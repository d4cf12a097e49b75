package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var ErrWorksheetNotFound = errors.New("worksheet not found")

// Reader reads whole worksheets through the Google Sheets API.
type Reader struct {
	service *sheets.Service

	mu     sync.Mutex
	titles map[string]map[int64]string
}

// NewReader authenticates with the service account key at credentialsFile
// using the read-only spreadsheets scope.
func NewReader(ctx context.Context, credentialsFile string) (*Reader, error) {
	data, err := LoadCredentials(credentialsFile)
	if err != nil {
		return nil, err
	}

	conf, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidCredentials, credentialsFile, err)
	}

	// The client outlives the startup context.
	client := conf.Client(context.WithoutCancel(ctx))
	return NewReaderWithOptions(ctx, option.WithHTTPClient(client))
}

// NewReaderWithOptions creates a reader from raw client options.
func NewReaderWithOptions(ctx context.Context, opts ...option.ClientOption) (*Reader, error) {
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets service: %w", err)
	}
	return &Reader{service: srv, titles: make(map[string]map[int64]string)}, nil
}

// Values returns the formatted cells of the worksheet with the given gid.
// Trailing empty cells of a row are omitted by the API, so rows may be
// shorter than the header.
func (r *Reader) Values(ctx context.Context, spreadsheetID string, gid int64) ([][]string, error) {
	title, err := r.title(ctx, spreadsheetID, gid)
	if err != nil {
		return nil, err
	}

	resp, err := r.service.Spreadsheets.Values.Get(spreadsheetID, quoteTitle(title)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		// A renamed worksheet no longer parses as a range.
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest {
			r.mu.Lock()
			delete(r.titles, spreadsheetID)
			r.mu.Unlock()
		}
		return nil, fmt.Errorf("failed to read worksheet %q: %w", title, err)
	}
	return toStrings(resp.Values), nil
}

// Titles lists the worksheets of a spreadsheet by gid.
func (r *Reader) Titles(ctx context.Context, spreadsheetID string) (map[int64]string, error) {
	resp, err := r.service.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties(sheetId,title)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet %s: %w", spreadsheetID, err)
	}

	titles := make(map[int64]string, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			titles[sh.Properties.SheetId] = sh.Properties.Title
		}
	}
	return titles, nil
}

func (r *Reader) title(ctx context.Context, spreadsheetID string, gid int64) (string, error) {
	r.mu.Lock()
	title, ok := r.titles[spreadsheetID][gid]
	r.mu.Unlock()
	if ok {
		return title, nil
	}

	titles, err := r.Titles(ctx, spreadsheetID)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.titles[spreadsheetID] = titles
	r.mu.Unlock()

	title, ok = titles[gid]
	if !ok {
		return "", fmt.Errorf("%w: gid %d in %s", ErrWorksheetNotFound, gid, spreadsheetID)
	}
	return title, nil
}

// quoteTitle turns a worksheet title into an A1 range covering the whole sheet.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func toStrings(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			switch v := cell.(type) {
			case nil:
			case string:
				out[i][j] = v
			default:
				out[i][j] = fmt.Sprint(v)
			}
		}
	}
	return out
}
