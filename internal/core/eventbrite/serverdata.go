package eventbrite

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/motorlist/eventbrite-harvester/internal/core/domain"
)

// ErrNoServerData indicates a search page without the embedded server-data
// script.
var ErrNoServerData = errors.New("no server data script found")

const (
	scriptMarker       = "window.__i18n__"
	serverDataStart    = " window.__SERVER_DATA__ = "
	serverDataEnd      = "window.__REACT_QUERY_STATE__ "
	endOfResultsMarker = "Nothing matched"
)

// serverData is the slice of the embedded payload carrying search results.
type serverData struct {
	SearchData struct {
		Events struct {
			Results []domain.RawEvent `json:"results"`
		} `json:"events"`
	} `json:"search_data"`
}

// ExtractEvents parses one search results page. The boolean reports the
// end-of-results marker, which renders instead of result cards once
// pagination runs out; no extraction is attempted in that case.
func ExtractEvents(page []byte) ([]domain.RawEvent, bool, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, false, fmt.Errorf("parse search page: %w", err)
	}

	if containsText(doc, endOfResultsMarker) {
		return nil, true, nil
	}

	script := findServerDataScript(doc)
	if script == "" {
		return nil, false, ErrNoServerData
	}

	payload, err := sliceServerData(script)
	if err != nil {
		return nil, false, err
	}

	var data serverData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, false, fmt.Errorf("decode server data: %w", err)
	}

	return data.SearchData.Events.Results, false, nil
}

// containsText reports whether any text node under n contains needle, script
// bodies included.
func containsText(n *html.Node, needle string) bool {
	if n.Type == html.TextNode && strings.Contains(n.Data, needle) {
		return true
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if containsText(child, needle) {
			return true
		}
	}

	return false
}

// findServerDataScript returns the body of the last script element carrying
// both the i18n bootstrap and a server-data assignment.
func findServerDataScript(root *html.Node) string {
	found := ""

	var traverse func(*html.Node)

	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" && n.FirstChild != nil {
			text := n.FirstChild.Data
			if strings.Contains(text, scriptMarker) && strings.Contains(text, serverDataStart) {
				found = text
			}
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			traverse(child)
		}
	}

	traverse(root)

	return found
}

// sliceServerData cuts the JSON object assigned to the server-data global
// out of the script statement, dropping the statement's trailing semicolon.
func sliceServerData(script string) (string, error) {
	start := strings.Index(script, serverDataStart)
	if start < 0 {
		return "", ErrNoServerData
	}

	start += len(serverDataStart)

	end := strings.Index(script[start:], serverDataEnd)
	if end < 0 {
		return "", ErrNoServerData
	}

	payload := strings.TrimSpace(script[start : start+end])

	return strings.TrimSuffix(payload, ";"), nil
}
