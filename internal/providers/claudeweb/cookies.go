package claudeweb

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha1"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"golang.org/x/crypto/pbkdf2"
)

// Cookie values in the desktop app's Chromium store are AES-128-CBC
// encrypted with a key derived from the "Claude Safe Storage" keychain
// entry, so extraction only works on macOS.

var errNotDarwin = errors.New("cookie extraction needs the macOS desktop app")

var wantCookies = []string{"sessionKey", "cf_clearance", "anthropic-device-id", "lastActiveOrg", "__cf_bm"}

func defaultCookiesDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Library", "Application Support", "Claude", "Cookies")
}

func sessionCookies(dbPath string) (map[string]string, error) {
	if runtime.GOOS != "darwin" {
		return nil, errNotDarwin
	}

	key, err := cookieEncryptionKey()
	if err != nil {
		return nil, err
	}

	if dbPath == "" {
		dbPath = defaultCookiesDBPath()
	}
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("cookies db not found: %s", dbPath)
	}

	cookies, err := readCookieDB(dbPath, key)
	if err != nil {
		return nil, err
	}
	if _, ok := cookies["sessionKey"]; !ok {
		return nil, errors.New("sessionKey cookie not found, desktop app may be signed out")
	}
	return cookies, nil
}

func cookieEncryptionKey() ([]byte, error) {
	out, err := exec.Command("security", "find-generic-password", "-w", "-s", "Claude Safe Storage", "-a", "Claude").Output()
	if err != nil {
		return nil, fmt.Errorf("keychain lookup failed: %w", err)
	}
	password := strings.TrimSpace(string(out))
	return pbkdf2.Key([]byte(password), []byte("saltysalt"), 1003, 16, sha1.New), nil
}

// readCookieDB copies the store to a temp file first. The live DB is
// locked by the running app.
func readCookieDB(dbPath string, key []byte) (map[string]string, error) {
	tmp, err := os.CreateTemp("", "claudeweb-cookies-*.db")
	if err != nil {
		return nil, fmt.Errorf("creating temp copy: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	src, err := os.ReadFile(dbPath)
	if err != nil {
		return nil, fmt.Errorf("reading cookies db: %w", err)
	}
	if err := os.WriteFile(tmpPath, src, 0o600); err != nil {
		return nil, fmt.Errorf("writing temp copy: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+tmpPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening cookies db: %w", err)
	}
	defer db.Close()

	placeholders := make([]string, len(wantCookies))
	args := make([]any, len(wantCookies))
	for i, name := range wantCookies {
		placeholders[i] = "?"
		args[i] = name
	}
	query := fmt.Sprintf(
		"SELECT name, encrypted_value FROM cookies WHERE host_key LIKE '%%claude.ai%%' AND name IN (%s)",
		strings.Join(placeholders, ","),
	)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cookies: %w", err)
	}
	defer rows.Close()

	cookies := make(map[string]string)
	for rows.Next() {
		var name string
		var encrypted []byte
		if err := rows.Scan(&name, &encrypted); err != nil {
			continue
		}
		value, err := decryptCookieValue(encrypted, key)
		if err != nil {
			continue
		}
		cookies[name] = value
	}
	return cookies, rows.Err()
}

// chromiumPrefixLen is the SHA-256 of the host key that Chromium
// prepends to every cookie value since v24.
const chromiumPrefixLen = 32

func decryptCookieValue(encrypted, key []byte) (string, error) {
	if len(encrypted) < 3 || string(encrypted[:3]) != "v10" {
		return "", errors.New("unsupported cookie encryption prefix")
	}
	ciphertext := encrypted[3:]
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", errors.New("ciphertext not aligned to block size")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	iv := bytes.Repeat([]byte(" "), aes.BlockSize)
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	padLen := int(plaintext[len(plaintext)-1])
	if padLen == 0 || padLen > aes.BlockSize || padLen > len(plaintext) {
		return "", errors.New("invalid PKCS7 padding")
	}
	plaintext = plaintext[:len(plaintext)-padLen]

	if len(plaintext) <= chromiumPrefixLen {
		return "", errors.New("decrypted value too short")
	}
	return string(plaintext[chromiumPrefixLen:]), nil
}
