package docs

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/btcfolio"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// TestTopics checks that docs/readme.md lists exactly the embedded topics.
func TestTopics(t *testing.T) {
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			listed = append(listed, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}

	for _, topic := range listed {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("failed to get topic %q: %v", topic, err)
		}
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	slices.Sort(listed)
	if !slices.Equal(all, listed) {
		t.Errorf("readme.md lists %v, embedded topics are %v", listed, all)
	}
}

func TestGetTopic_NotFound(t *testing.T) {
	_, err := GetTopic("nope")
	if err == nil {
		t.Fatal("GetTopic(nope) succeeded")
	}
	// the error lists what exists.
	if !strings.Contains(err.Error(), "cost-basis") {
		t.Errorf("GetTopic(nope) error = %v", err)
	}
}

func TestGetTopics_Order(t *testing.T) {
	got, err := GetTopics("watch", "ledger")
	if err != nil {
		t.Fatal(err)
	}
	if w, l := strings.Index(got, "# Watch"), strings.Index(got, "# Ledger"); w < 0 || l < w {
		t.Errorf("topics are not in the requested order:\n%s", got)
	}
	if _, err := GetTopics("ledger", "nope"); err == nil {
		t.Error("GetTopics with an unknown topic succeeded")
	}
}

func TestGetTopics_All(t *testing.T) {
	all, err := GetTopics(All)
	if err != nil {
		t.Fatal(err)
	}
	for _, title := range []string{"# Ledger", "# Cost basis", "# Watch", "# Extensions"} {
		if !strings.Contains(all, title) {
			t.Errorf("all topics miss %q", title)
		}
	}
	if strings.Contains(all, "Run `btcf topic") {
		t.Error("all topics include the readme")
	}
}

// TestLedgerExamples decodes every json block of the topics as a ledger.
func TestLedgerExamples(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, file := range files {
		for _, block := range jsonBlocks(t, file) {
			count++
			txs, err := btcfolio.DecodeLedger(strings.NewReader(block))
			if err != nil {
				t.Errorf("%s: invalid ledger example: %v\n%s", file, err, block)
				continue
			}
			if len(txs) == 0 {
				t.Errorf("%s: empty ledger example", file)
			}
		}
	}
	if count == 0 {
		t.Error("no ledger example found")
	}
}

// jsonBlocks returns the content of the fenced json blocks of file.
func jsonBlocks(t *testing.T, file string) []string {
	t.Helper()
	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var blocks []string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || string(fcb.Language(content)) != "json" {
			return ast.WalkContinue, nil
		}
		var b bytes.Buffer
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			b.Write(line.Value(content))
		}
		blocks = append(blocks, b.String())
		return ast.WalkContinue, nil
	})
	return blocks
}
