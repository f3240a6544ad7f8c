package images

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/jknair0/beforeeach"
	"github.com/jonboulle/clockwork"
)

var (
	testDir string
	store   *Store
)

func setUp() {
	testDir, _ = os.MkdirTemp("", "images_test")
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC))
	store = NewStore(filepath.Join(testDir, "report_images"), clock)
	if err := store.EnsureFolders(); err != nil {
		panic(err)
	}
}

func tearDown() {
	os.RemoveAll(testDir)
}

var it = beforeeach.Create(setUp, tearDown)

type upload struct {
	filename string
	content  string
}

// formFiles builds real multipart file headers the way a submission
// request would carry them.
func formFiles(t *testing.T, uploads []upload) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, u := range uploads {
		fw, err := mw.CreateFormFile("images", u.filename)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := fw.Write([]byte(u.content)); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/submit_report", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("failed to parse multipart form: %v", err)
	}
	return req.MultipartForm.File["images"]
}

func TestSaveAllNames(t *testing.T) {
	it(func() {
		files := formFiles(t, []upload{
			{"river.jpg", "jpeg-bytes"},
			{"trail.png", "png-bytes"},
		})

		saved := store.SaveAll("pollution", files)

		expected := []string{"20240501_103000_1.jpg", "20240501_103000_2.png"}
		if !reflect.DeepEqual(saved, expected) {
			t.Errorf("SaveAll: expected %v, got %v", expected, saved)
		}
		for i, name := range expected {
			data, err := os.ReadFile(filepath.Join(store.Root(), "pollution", name))
			if err != nil {
				t.Fatalf("expected stored file %s: %v", name, err)
			}
			if i == 0 && string(data) != "jpeg-bytes" {
				t.Errorf("expected first file content preserved, got %q", data)
			}
		}
	})
}

func TestSaveAllSkipsUnnamed(t *testing.T) {
	it(func() {
		files := formFiles(t, []upload{{"shot.jpg", "bytes"}})
		// An unnamed entry still occupies its input position.
		files = append([]*multipart.FileHeader{{Filename: ""}}, files...)

		saved := store.SaveAll("pollution", files)

		expected := []string{"20240501_103000_2.jpg"}
		if !reflect.DeepEqual(saved, expected) {
			t.Errorf("SaveAll: expected %v, got %v", expected, saved)
		}
	})
}

func TestSaveAllUnknownCategory(t *testing.T) {
	it(func() {
		files := formFiles(t, []upload{{"heap.jpg", "bytes"}})

		saved := store.SaveAll("Garbage", files)

		if len(saved) != 1 {
			t.Fatalf("SaveAll: expected 1 stored file, got %d", len(saved))
		}
		if _, err := os.Stat(filepath.Join(store.Root(), "other", saved[0])); err != nil {
			t.Errorf("expected unknown category to land in other/: %v", err)
		}
	})
}

func TestEnsureFoldersIdempotent(t *testing.T) {
	it(func() {
		if err := store.EnsureFolders(); err != nil {
			t.Errorf("EnsureFolders: unexpected error on repeat call: %v", err)
		}
		for _, category := range []string{"pollution", "deforestation", "improvement", "other"} {
			info, err := os.Stat(filepath.Join(store.Root(), category))
			if err != nil || !info.IsDir() {
				t.Errorf("expected category folder %s, got err %v", category, err)
			}
		}
	})
}

func TestResolve(t *testing.T) {
	it(func() {
		files := formFiles(t, []upload{{"river.jpg", "bytes"}})
		saved := store.SaveAll("pollution", files)

		testCases := []struct {
			name     string
			category string
			filename string
			ok       bool
		}{
			{"stored file", "pollution", saved[0], true},
			{"missing file", "pollution", "20000101_000000_1.jpg", false},
			{"unknown category", "garbage", saved[0], false},
			{"path traversal", "pollution", "../" + saved[0], false},
			{"dot dot", "pollution", "..", false},
			{"empty name", "pollution", "", false},
		}

		for _, testCase := range testCases {
			_, ok := store.Resolve(testCase.category, testCase.filename)
			if ok != testCase.ok {
				t.Errorf("%s: expected ok=%v, got %v", testCase.name, testCase.ok, ok)
			}
		}
	})
}

func TestSanitizeName(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"20240501_103000_1.jpg", "20240501_103000_1.jpg"},
		{"20240501_103000_1.j pg", "20240501_103000_1.j_pg"},
		{"shot.p!ng", "shot.png"},
		{"weird%2Fname.png", "weird2Fname.png"},
		{"نام.jpg", ".jpg"},
	}

	for _, testCase := range testCases {
		if got := sanitizeName(testCase.in); got != testCase.expected {
			t.Errorf("sanitizeName(%q): expected %q, got %q", testCase.in, testCase.expected, got)
		}
	}
}
