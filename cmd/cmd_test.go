package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKitchen(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	data := `kitchen:
  menu:
    - name: Soup
      ingredients:
        - {name: soup-base, quantity: 5}
    - name: Salad
      ingredients:
        - {name: lettuce, quantity: 1}
  stations:
    - name: B
      dishes: [Salad]
    - name: A
      dishes: [Soup]
      stock:
        - {name: soup-base, quantity: 2}
  backup:
    - {name: soup-base, quantity: 10}
  orders:
    - dish: Soup
    - dish: Salad
journal:
  path: ` + filepath.Join(dir, "journal.jsonl") + `
log:
  level: error
`
	path := filepath.Join(dir, "kitchen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestRunCommandPrintsTrace(t *testing.T) {
	out := execute(t, "run", "-c", writeKitchen(t))
	assert.Contains(t, out, "PREPARING DISH: Soup\n")
	assert.Contains(t, out, "A: Ingredients replenished.\n")
	assert.Contains(t, out, "Salad was not prepared.\n")
	assert.Contains(t, out, "1/2 prepared")
	assert.Contains(t, out, "remaining queue:\n  Salad\n")
}

func TestQueueCommand(t *testing.T) {
	out := execute(t, "queue", "-c", writeKitchen(t))
	assert.Equal(t, "Soup\nSalad\n", out)
}

func TestMergeCommand(t *testing.T) {
	out := execute(t, "merge", "A", "B", "-c", writeKitchen(t))
	assert.Contains(t, out, "stations: A\n")
	assert.Contains(t, out, "soup-base")
}

func TestStepCommand(t *testing.T) {
	out := execute(t, "step", "-n", "2", "-c", writeKitchen(t))
	assert.Contains(t, out, "no station can prepare Soup yet")
	assert.Contains(t, out, "2 orders left")
}

func TestJournalCommandCSV(t *testing.T) {
	path := writeKitchen(t)
	execute(t, "run", "-q", "-c", path)
	out := execute(t, "journal", "--dish", "Soup", "-f", "csv", "-c", path)
	assert.Contains(t, out, "batch_id,timestamp,dish,station,prepared,replenished\n")
	assert.Contains(t, out, ",Soup,A,true,true\n")
	assert.Contains(t, out, ",Salad,,false,false\n")
}

func TestJournalCommandHTML(t *testing.T) {
	path := writeKitchen(t)
	execute(t, "run", "-q", "-c", path)
	out := execute(t, "journal", "--dish", "", "-f", "html", "-c", path)
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Dispatch batches")
}
