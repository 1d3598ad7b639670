package app

import (
    "bufio"
    "errors"
    "os"
    "strings"
)

// LoadEnvFiles reads dotenv files (KEY=VALUE per line) into the process
// environment, in order, so later files win. Missing files are skipped.
// Blank lines, '#' comments and an optional leading "export " are accepted;
// values may be wrapped in single or double quotes and are not expanded.
func LoadEnvFiles(paths ...string) error {
    for _, p := range paths {
        if strings.TrimSpace(p) == "" {
            continue
        }
        vars, err := readEnvFile(p)
        if errors.Is(err, os.ErrNotExist) {
            continue
        }
        if err != nil {
            return err
        }
        for _, kv := range vars {
            if err := os.Setenv(kv[0], kv[1]); err != nil {
                return err
            }
        }
    }
    return nil
}

func readEnvFile(path string) ([][2]string, error) {
    f, err := os.Open(path)
    if err != nil {
        return nil, err
    }
    defer f.Close()

    var out [][2]string
    sc := bufio.NewScanner(f)
    for sc.Scan() {
        line := strings.TrimSpace(sc.Text())
        if line == "" || line[0] == '#' {
            continue
        }
        line = strings.TrimPrefix(line, "export ")
        key, val, ok := strings.Cut(line, "=")
        key = strings.TrimSpace(key)
        if !ok || key == "" {
            continue
        }
        out = append(out, [2]string{key, unquote(strings.TrimSpace(val))})
    }
    return out, sc.Err()
}

func unquote(v string) string {
    if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
        return v[1 : len(v)-1]
    }
    // Unquoted values may carry a trailing " # comment".
    if i := strings.Index(v, " #"); i >= 0 {
        return strings.TrimSpace(v[:i])
    }
    return v
}
