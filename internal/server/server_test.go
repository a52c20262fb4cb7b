package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ukaji3/exrows-go/pkg/exrows"
	"github.com/ukaji3/exrows-go/pkg/exrows/memory"
	"github.com/ukaji3/exrows-go/pkg/exrows/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const initializeRequest = `{"jsonrpc":"2.0","id":0,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rawResponse struct {
	ID     json.RawMessage `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type toolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

func newStore() *memory.Store {
	store := memory.NewStore()
	store.Put("book.xlsx", models.SheetData{Title: "Data", Rows: []models.Row{{int64(1), "x"}, {int64(2), "y"}}})
	return store
}

func newServer(store *memory.Store) *Server {
	return New(Config{
		Name:    "test",
		Version: "0.0.1",
		Open: func(path string) (*exrows.Engine, error) {
			return exrows.Open(path, exrows.Options{Codec: store})
		},
	}, nil)
}

// serve runs the lines through a server and returns the responses keyed by id.
func serve(t *testing.T, store *memory.Store, lines ...string) map[string]rawResponse {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	require.NoError(t, newServer(store).Serve(context.Background(), in, &out))

	responses := make(map[string]rawResponse)
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var resp rawResponse
		require.NoError(t, json.Unmarshal([]byte(line), &resp), line)
		responses[string(resp.ID)] = resp
	}
	return responses
}

func call(id int, name string, args string) string {
	return `{"jsonrpc":"2.0","id":` + strconv.Itoa(id) + `,"method":"tools/call","params":{"name":"` + name + `","arguments":` + args + `}}`
}

func decodeResult(t *testing.T, resp rawResponse) toolResult {
	t.Helper()
	require.Nil(t, resp.Error)
	var res toolResult
	require.NoError(t, json.Unmarshal(resp.Result, &res))
	require.NotEmpty(t, res.Content)
	return res
}

func TestInitializeAndList(t *testing.T) {
	responses := serve(t, newStore(),
		initializeRequest,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	)
	require.Len(t, responses, 2)

	var init struct {
		ServerInfo map[string]string `json:"serverInfo"`
	}
	require.NoError(t, json.Unmarshal(responses["0"].Result, &init))
	assert.Equal(t, "test", init.ServerInfo["name"])

	var list struct {
		Tools []struct {
			Name        string `json:"name"`
			InputSchema struct {
				Required []string `json:"required"`
			} `json:"inputSchema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(responses["2"].Result, &list))
	required := make(map[string][]string)
	for _, tool := range list.Tools {
		required[tool.Name] = tool.InputSchema.Required
	}
	assert.Len(t, required, 8)
	assert.ElementsMatch(t, []string{"filepath"}, required["list_sheets_in_workbook"])
	assert.ElementsMatch(t, []string{"filepath", "sheet_name"}, required["read_excel_sheet"])
	assert.ElementsMatch(t, []string{"filepath", "sheet_name", "rows"}, required["add_rows_to_excel_sheet"])
	assert.ElementsMatch(t, []string{"filepath", "sheet_name", "row"}, required["append_row_to_excel_sheet"])
	assert.ElementsMatch(t, []string{"filepath", "sheet_name", "row_number", "row"}, required["update_row_in_excel_sheet"])
	assert.ElementsMatch(t, []string{"filepath", "source_sheet_name", "target_sheet_name"}, required["copy_excel_sheet"])
	assert.ElementsMatch(t, []string{"filepath", "sheet_name", "row_number"}, required["delete-row-in-excel-sheet"])
	assert.ElementsMatch(t, []string{"filepath", "sheet_name", "first_row_index", "rows"}, required["replace-rows-in-excel-sheet"])
}

func TestToolCallsMutateAndRead(t *testing.T) {
	store := newStore()
	responses := serve(t, store,
		initializeRequest,
		call(1, "append_row_to_excel_sheet", `{"filepath":"book.xlsx","sheet_name":"Data","row":[3,"z"]}`),
		call(2, "add_rows_to_excel_sheet", `{"filepath":"book.xlsx","sheet_name":"Data","rows":[[4,"w"],[5.5,true]]}`),
		call(3, "update_row_in_excel_sheet", `{"filepath":"book.xlsx","sheet_name":"Data","row_number":1,"row":["one"]}`),
		call(4, "delete-row-in-excel-sheet", `{"filepath":"book.xlsx","sheet_name":"Data","row_number":2}`),
		call(5, "replace-rows-in-excel-sheet", `{"filepath":"book.xlsx","sheet_name":"Data","first_row_index":4,"rows":[[null,"W"]]}`),
		call(6, "copy_excel_sheet", `{"filepath":"book.xlsx","source_sheet_name":"Data","target_sheet_name":"Copy"}`),
		call(7, "list_sheets_in_workbook", `{"filepath":"book.xlsx"}`),
		call(8, "read_excel_sheet", `{"filepath":"book.xlsx","sheet_name":"Copy"}`),
	)
	require.Len(t, responses, 9)
	for id := 1; id <= 6; id++ {
		res := decodeResult(t, responses[strconv.Itoa(id)])
		assert.False(t, res.IsError, "call %d: %+v", id, res.Content)
	}

	assert.JSONEq(t, `["Data","Copy"]`, decodeResult(t, responses["7"]).Content[0].Text)
	assert.JSONEq(t, `[["one","x"],[3,"z"],[4,"w"],[null,"W"]]`, decodeResult(t, responses["8"]).Content[0].Text)
	assert.Equal(t, 6, store.Writes("book.xlsx"))
}

func TestToolErrors(t *testing.T) {
	store := newStore()
	responses := serve(t, store,
		call(1, "copy_excel_sheet", `{"filepath":"book.xlsx","source_sheet_name":"Missing","target_sheet_name":"X"}`),
		call(2, "copy_excel_sheet", `{"filepath":"book.xlsx","source_sheet_name":"Data","target_sheet_name":"data"}`),
		call(3, "delete-row-in-excel-sheet", `{"filepath":"book.xlsx","sheet_name":"Data","row_number":9}`),
		call(4, "append_row_to_excel_sheet", `{"filepath":"book.xlsx","sheet_name":"Data","row":[{"a":1}]}`),
		call(5, "read_excel_sheet", `{"filepath":"other.xlsx","sheet_name":"Data"}`),
		call(6, "read_excel_sheet", `{"filepath":"book.xlsx"}`),
		call(7, "update_row_in_excel_sheet", `{"filepath":"book.xlsx","sheet_name":"Data","row_number":1.5,"row":[1]}`),
	)
	codes := map[string]string{
		"1": CodeNotFound,
		"2": CodeConflict,
		"3": CodeRange,
		"4": CodeInvalidArgument,
		"5": CodeNotFound,
		"6": CodeInvalidArgument,
		"7": CodeInvalidArgument,
	}
	require.Len(t, responses, len(codes))
	for id, code := range codes {
		res := decodeResult(t, responses[id])
		assert.True(t, res.IsError, "call %s", id)
		assert.True(t, strings.HasPrefix(res.Content[0].Text, code+": "), "call %s: %s", id, res.Content[0].Text)
	}
	assert.Contains(t, decodeResult(t, responses["6"]).Content[0].Text, "sheet_name")
	assert.Equal(t, 0, store.Writes("book.xlsx"))
}

func TestProtocolErrors(t *testing.T) {
	responses := serve(t, newStore(),
		`{"jsonrpc":"2.0","id":2,"method":"resources/unknown"}`,
		call(3, "no_such_tool", `{}`),
		`{"jsonrpc":"2.0","id":5,"method":"ping"}`,
	)
	require.NotNil(t, responses["2"].Error)
	assert.Equal(t, mcp.METHOD_NOT_FOUND, responses["2"].Error.Code)
	assert.NotNil(t, responses["3"].Error)
	assert.Nil(t, responses["5"].Error)
}

func TestServeStopsWhileWaitingForInput(t *testing.T) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- newServer(newStore()).Serve(ctx, inR, outW)
	}()

	_, err := io.WriteString(inW, `{"jsonrpc":"2.0","id":1,"method":"ping"}`+"\n")
	require.NoError(t, err)
	line, err := bufio.NewReader(outR).ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"id":1`)

	// the server is now blocked waiting for the next request
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve kept running after its context was canceled")
	}
	require.NoError(t, inW.Close())
	require.NoError(t, outW.Close())
}
