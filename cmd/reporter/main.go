package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"lostfound/internal/common/enum"
	types "lostfound/internal/common/type"
	"lostfound/internal/pkg/helper"
	"lostfound/internal/pkg/logger"
	"lostfound/internal/service/upload"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
)

// reporter files a lost or found report from the command line: it signs in,
// previews the given photos, asks which to keep and posts the approved ones.
func main() {
	var (
		server      = flag.String("server", helper.GetEnvOr("APP_URL", "http://localhost:8000"), "base URL of the lost and found server")
		identifier  = flag.String("user", "", "email or campus ID")
		password    = flag.String("password", helper.GetEnv("LOSTFOUND_PASSWORD"), "account password")
		itemType    = flag.String("type", enum.LOST.ToString(), "lost or found")
		title       = flag.String("title", "", "item title")
		description = flag.String("description", "", "item description")
		phone       = flag.String("phone", "", "contact phone")
		yes         = flag.Bool("yes", false, "approve every photo without asking")
	)
	flag.Parse()
	defer logger.Sync()

	if !enum.ItemTypeEnum(*itemType).IsValid() {
		logger.Error.Fatalf("-type must be lost or found, got %q", *itemType)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	base := strings.TrimRight(*server, "/")
	token, err := login(ctx, base, *identifier, *password)
	if err != nil {
		logger.Error.Fatalf("Login failed: %v", err)
	}

	files, err := readFiles(flag.Args())
	if err != nil {
		logger.Error.Fatal(err)
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+token)
	w := upload.NewWorkflow(
		upload.WithSender(&upload.HTTPSender{
			URL:     fmt.Sprintf("%s/api/report/%s", base, *itemType),
			Headers: headers,
		}),
		upload.OnPreview(func(p upload.Preview) {
			if p.Failed {
				fmt.Printf("  %s: could not be decoded\n", p.Name)
				return
			}
			fmt.Printf("  %s: %dx%d preview ready\n", p.Name, p.Width, p.Height)
		}),
	)

	pending, skipped, err := w.SelectFiles(files)
	if err != nil {
		logger.Error.Fatal(err)
	}
	for _, f := range skipped {
		fmt.Printf("Skipping %s: not an image\n", f.OriginalName)
	}
	w.Wait()

	in := bufio.NewScanner(os.Stdin)
	for _, p := range pending {
		keep := *yes || ask(in, fmt.Sprintf("Approve %s? [y/N] ", p.File.OriginalName))
		if keep {
			err = w.Approve(p.ID)
		} else {
			err = w.Reject(p.ID)
		}
		if err != nil {
			logger.Error.Fatal(err)
		}
	}

	ack, err := w.Submit(ctx, map[string]string{
		"title":         *title,
		"description":   *description,
		"contact_phone": *phone,
	})
	if err != nil {
		if errors.Is(err, upload.ErrNothingApproved) {
			fmt.Println("Please approve at least one photo.")
			os.Exit(1)
		}
		logger.Error.Fatalf("Submit failed: %v", err)
	}
	fmt.Println(ack)
}

func login(ctx context.Context, base, identifier, password string) (string, error) {
	resp, err := helper.HTTPRequest(&helper.HTTPRequestPayload{
		Method: enum.POST,
		URL:    base + "/api/login",
		Body:   map[string]string{"identifier": identifier, "password": password},
	}, &helper.HTTPRequestConfig{Ctx: ctx})
	if err != nil {
		return "", err
	}

	body, _ := resp.Data.(map[string]interface{})
	if !resp.OK() {
		return "", fmt.Errorf("status %d: %v", resp.StatusCode, body["message"])
	}
	data, _ := body["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	if token == "" {
		return "", errors.New("no token in response")
	}
	return token, nil
}

func readFiles(paths []string) ([]types.BufferedFile, error) {
	files := make([]types.BufferedFile, 0, len(paths))
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, types.BufferedFile{
			MediaType:    enum.PhotoField,
			OriginalName: filepath.Base(path),
			MimeType:     http.DetectContentType(raw),
			Size:         len(raw),
			Buffer:       raw,
		})
	}
	return files, nil
}

func ask(in *bufio.Scanner, prompt string) bool {
	fmt.Print(prompt)
	if !in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(in.Text()))
	return answer == "y" || answer == "yes"
}
