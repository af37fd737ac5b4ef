package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/galleryhub/galleryhub/internal/client/api"
	"github.com/galleryhub/galleryhub/internal/client/assistant"
	"github.com/galleryhub/galleryhub/internal/client/collection"
	"github.com/galleryhub/galleryhub/internal/client/profile"
	"github.com/galleryhub/galleryhub/internal/client/session"
	"github.com/galleryhub/galleryhub/internal/client/upload"
	"github.com/galleryhub/galleryhub/internal/models"
)

var (
	version   string
	buildDate string
)

// shell bundles everything the interactive loop works with: the session
// store, the API client, one collection controller per kind, and the
// chat widget once opened.
type shell struct {
	sessions    *session.Store
	client      *api.Client
	controllers map[string]*collection.Controller
	current     *collection.Controller
	chat        *assistant.Widget
	scanner     *bufio.Scanner
}

func newShell(baseURL string, sessions *session.Store) *shell {
	client := api.New(baseURL, sessions)
	controllers := make(map[string]*collection.Controller, len(models.Kinds))
	for _, kind := range models.Kinds {
		controllers[kind.Plural] = collection.New(kind, client)
	}
	return &shell{
		sessions:    sessions,
		client:      client,
		controllers: controllers,
		current:     controllers[models.Images.Plural],
		scanner:     bufio.NewScanner(os.Stdin),
	}
}

// prompt reads one line after printing label.
func (s *shell) prompt(label string) string {
	fmt.Print(label)
	if !s.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(s.scanner.Text())
}

// confirm asks a yes/no question and returns true on "y"/"yes".
func (s *shell) confirm(question string) bool {
	answer := strings.ToLower(s.prompt(question + " [y/N]: "))
	return answer == "y" || answer == "yes"
}

// expired handles the 401 path: drop the session and tell the user to
// log in again. Returns true when err was a session expiry.
func (s *shell) expired(err error) bool {
	if !errors.Is(err, api.ErrSessionExpired) {
		return false
	}
	_ = s.sessions.Clear()
	s.chat = nil
	fmt.Println("Session expired. Please login again.")
	return true
}

func (s *shell) requireLogin() bool {
	if s.sessions.Get() == nil {
		fmt.Println("Not logged in. Use 'login' or 'register' first.")
		return false
	}
	return true
}

// repl runs the interactive loop, accepting commands to manage media.
func repl(s *shell) {
	ctx := context.Background()

	if sess := s.sessions.Get(); sess != nil {
		fmt.Printf("Logged in as %s (%s)\n", sess.Name, sess.Email)
	}

	for {
		kind := s.current.Kind()
		fmt.Printf("galleryhub:%s> ", kind.Plural)
		if !s.scanner.Scan() {
			break
		}
		line := strings.TrimSpace(s.scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			printHelp()
		case "login":
			s.cmdLogin(ctx)
		case "register":
			s.cmdRegister(ctx)
		case "logout":
			_ = s.sessions.Clear()
			s.chat = nil
			fmt.Println("Logged out")
		case "use":
			if len(args) < 2 {
				fmt.Println("Usage: use <images|videos|documents>")
				continue
			}
			s.cmdUse(ctx, args[1])
		case "list":
			s.cmdList()
		case "refresh":
			s.cmdRefresh(ctx)
		case "upload":
			if len(args) < 2 {
				fmt.Println("Usage: upload <path> [path ...]")
				continue
			}
			s.cmdUpload(ctx, args[1:])
		case "select":
			if len(args) < 2 {
				fmt.Println("Usage: select <index|all>")
				continue
			}
			s.cmdSelect(args[1])
		case "selection":
			s.cmdSelection()
		case "delete":
			if len(args) < 2 {
				fmt.Println("Usage: delete <index|selected>")
				continue
			}
			s.cmdDelete(ctx, args[1])
		case "download":
			if len(args) < 2 {
				fmt.Println("Usage: download <output.zip>")
				continue
			}
			s.cmdDownload(ctx, args[1])
		case "preview":
			if len(args) < 2 {
				fmt.Println("Usage: preview <index>")
				continue
			}
			s.cmdPreview(args[1])
		case "profile":
			s.cmdProfile(ctx, args[1:])
		case "storage":
			s.cmdStorage(ctx)
		case "chat":
			if len(args) < 2 {
				fmt.Println("Usage: chat <message>")
				continue
			}
			s.cmdChat(ctx, strings.Join(args[1:], " "))
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func printHelp() {
	fmt.Println(`Available commands:
  login | register | logout
  use <images|videos|documents>   switch resource kind
  list                            show the current collection
  refresh                         re-fetch the collection
  upload <path> [path ...]        upload files
  select <index|all>              toggle selection
  selection                       show selected items
  delete <index|selected>         delete one item or the selection
  download <output.zip>           download selection as zip
  preview <index>                 open image preview (images only)
  profile [update|picture <path>] show or edit the profile
  storage                         show storage usage
  chat <message>                  ask the assistant
  exit`)
}

func (s *shell) cmdLogin(ctx context.Context) {
	email := s.prompt("Email: ")
	password := s.prompt("Password: ")
	sess, err := s.client.Login(ctx, email, password)
	if err != nil {
		fmt.Println("Login failed:", err)
		return
	}
	if err := s.sessions.Set(sess); err != nil {
		fmt.Println("Failed to save session:", err)
		return
	}
	s.chat = nil
	fmt.Printf("Welcome back, %s\n", sess.Name)
}

func (s *shell) cmdRegister(ctx context.Context) {
	name := s.prompt("Name: ")
	email := s.prompt("Email: ")
	password := s.prompt("Password: ")
	sess, err := s.client.Register(ctx, name, email, password)
	if err != nil {
		fmt.Println("Registration failed:", err)
		return
	}
	if err := s.sessions.Set(sess); err != nil {
		fmt.Println("Failed to save session:", err)
		return
	}
	s.chat = nil
	fmt.Printf("Welcome, %s\n", sess.Name)
}

func (s *shell) cmdUse(ctx context.Context, name string) {
	ctrl, ok := s.controllers[name]
	if !ok {
		if kind := models.KindByName(name); kind != nil {
			ctrl = s.controllers[kind.Plural]
		}
	}
	if ctrl == nil {
		fmt.Println("Unknown kind:", name)
		return
	}
	s.current = ctrl
	if !s.requireLogin() {
		return
	}
	if err := ctrl.Load(ctx); err != nil {
		if !s.expired(err) {
			fmt.Println("Failed to load:", ctrl.Err())
		}
		return
	}
	fmt.Printf("%d %s\n", ctrl.Len(), ctrl.Kind().Plural)
}

func (s *shell) cmdList() {
	items := s.current.Items()
	if len(items) == 0 {
		fmt.Printf("No %s uploaded yet\n", s.current.Kind().Plural)
		return
	}
	sel := s.current.Selection()
	for i, item := range items {
		marker := " "
		if sel.Has(item.ID) {
			marker = "*"
		}
		fmt.Printf("%s %3d  %-40s %10d bytes  %s\n", marker, i, item.OriginalName, item.Size, item.UploadDate)
	}
}

func (s *shell) cmdRefresh(ctx context.Context) {
	if !s.requireLogin() {
		return
	}
	if err := s.current.Refresh(ctx); err != nil {
		if !s.expired(err) {
			fmt.Println("Failed to refresh:", s.current.Err())
		}
		return
	}
	fmt.Printf("%d %s\n", s.current.Len(), s.current.Kind().Plural)
}

func (s *shell) cmdUpload(ctx context.Context, paths []string) {
	if !s.requireLogin() {
		return
	}

	var (
		files  []api.File
		closes []func() error
	)
	for _, path := range paths {
		f, closeFn, err := upload.FromPath(path)
		if err != nil {
			fmt.Println("Cannot read:", err)
			continue
		}
		files = append(files, f)
		closes = append(closes, closeFn)
	}
	defer func() {
		for _, closeFn := range closes {
			_ = closeFn()
		}
	}()
	if len(files) == 0 {
		return
	}

	uploader := upload.New(s.current.Kind(), s.client)
	result, err := uploader.Send(ctx, files)
	for _, rejection := range multierr.Errors(result.Rejected) {
		fmt.Println(rejection)
	}
	if err != nil {
		if !s.expired(err) {
			fmt.Println("Upload failed:", err)
		}
		return
	}
	s.current.ApplyUpload(result.Items...)
	if n := len(result.Items); n == 1 {
		fmt.Printf("Uploaded 1 %s\n", s.current.Kind().Name)
	} else if n > 1 {
		fmt.Printf("Uploaded %d %s\n", n, s.current.Kind().Plural)
	}
}

func (s *shell) itemAt(arg string) (models.MediaItem, bool) {
	index, err := strconv.Atoi(arg)
	if err != nil || index < 0 || index >= s.current.Len() {
		fmt.Println("No item at index:", arg)
		return models.MediaItem{}, false
	}
	return s.current.Items()[index], true
}

func (s *shell) cmdSelect(arg string) {
	if arg == "all" {
		s.current.ToggleSelectAll()
		fmt.Printf("%d selected\n", s.current.Selection().Count())
		return
	}
	item, ok := s.itemAt(arg)
	if !ok {
		return
	}
	s.current.Selection().Toggle(item.ID)
	fmt.Printf("%d selected\n", s.current.Selection().Count())
}

func (s *shell) cmdSelection() {
	ids := s.current.SelectedIDs()
	if len(ids) == 0 {
		fmt.Println("Nothing selected")
		return
	}
	fmt.Printf("%d selected\n", len(ids))
}

func (s *shell) cmdDelete(ctx context.Context, arg string) {
	if !s.requireLogin() {
		return
	}

	if arg == "selected" {
		count := s.current.Selection().Count()
		if count == 0 {
			fmt.Println("Nothing selected")
			return
		}
		if !s.confirm(s.current.ConfirmMessage(count)) {
			return
		}
		result, err := s.current.DeleteSelected(ctx)
		if err != nil {
			for _, itemErr := range multierr.Errors(err) {
				if s.expired(itemErr) {
					return
				}
			}
			fmt.Printf("Some %s could not be deleted. Please try again.\n", s.current.Kind().Plural)
			return
		}
		if n := len(result.Deleted); n == 1 {
			fmt.Printf("1 %s deleted\n", s.current.Kind().Name)
		} else {
			fmt.Printf("%d %s deleted\n", n, s.current.Kind().Plural)
		}
		return
	}

	item, ok := s.itemAt(arg)
	if !ok {
		return
	}
	if !s.confirm(s.current.ConfirmMessage(1)) {
		return
	}
	if err := s.current.Delete(ctx, item.ID); err != nil {
		if !s.expired(err) {
			fmt.Println("Failed to delete:", err)
		}
		return
	}
	fmt.Printf("Deleted %q\n", item.OriginalName)
}

func (s *shell) cmdDownload(ctx context.Context, outPath string) {
	if !s.requireLogin() {
		return
	}
	if s.current.Selection().Count() == 0 {
		fmt.Println("Nothing selected")
		return
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Println("Cannot create output file:", err)
		return
	}
	n, err := s.current.DownloadSelected(ctx, out)
	closeErr := out.Close()
	if err != nil {
		os.Remove(outPath)
		if !s.expired(err) {
			fmt.Println("Failed to download zip:", err)
		}
		return
	}
	if closeErr != nil {
		fmt.Println("Failed to write output file:", closeErr)
		return
	}
	fmt.Printf("Wrote %s (%d bytes)\n", outPath, n)
}

// cmdPreview opens the image preview and drives it with line-based key
// commands until it is closed.
func (s *shell) cmdPreview(arg string) {
	if s.current.Kind().Name != models.Images.Name {
		fmt.Println("Preview is available for images only")
		return
	}
	index, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Println("No item at index:", arg)
		return
	}
	p := s.current.OpenPreview(index)
	if p == nil {
		fmt.Println("No item at index:", arg)
		return
	}
	// Bytes arrive synchronously in a terminal client, so the loading
	// placeholder collapses immediately.
	p.MarkLoaded()

	fmt.Println("Preview keys: + - zoom, 0 reset, n/p navigate, q close")
	for p.Open() {
		item := p.Current()
		fmt.Printf("[%d/%d] %s  zoom %d%%\n", p.Index()+1, s.current.Len(), item.OriginalName, int(p.Zoom()*100))
		key := s.prompt("preview> ")
		if key == "" {
			continue
		}
		p.HandleKey(key)
		if p.Open() && !p.Loaded() {
			p.MarkLoaded()
		}
	}
}

func (s *shell) cmdProfile(ctx context.Context, args []string) {
	if !s.requireLogin() {
		return
	}
	editor := profile.NewEditor(s.client, s.sessions)

	if len(args) == 0 {
		user, err := editor.Fetch(ctx)
		if err != nil {
			if !s.expired(err) {
				fmt.Println("Failed to fetch user profile:", err)
			}
			return
		}
		fmt.Printf("Name:  %s\nEmail: %s\n", user.Name, user.Email)
		if user.ProfilePicture != "" {
			fmt.Printf("Picture: %s\n", user.ProfilePicture)
		}
		return
	}

	switch args[0] {
	case "update":
		name := s.prompt("Name: ")
		email := s.prompt("Email: ")
		current := s.prompt("Current password (empty to keep): ")
		newPwd, confirm := "", ""
		if current != "" {
			newPwd = s.prompt("New password: ")
			confirm = s.prompt("Confirm new password: ")
		}
		user, err := editor.Update(ctx, name, email, current, newPwd, confirm)
		if err != nil {
			if !s.expired(err) {
				fmt.Println("Failed to update profile:", err)
			}
			return
		}
		fmt.Printf("Profile updated: %s <%s>\n", user.Name, user.Email)
	case "picture":
		if len(args) < 2 {
			fmt.Println("Usage: profile picture <path> [x y w h]")
			return
		}
		s.cmdProfilePicture(ctx, editor, args[1], args[2:])
	default:
		fmt.Println("Usage: profile [update|picture <path>]")
	}
}

func (s *shell) cmdProfilePicture(ctx context.Context, editor *profile.Editor, path string, rectArgs []string) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("Cannot read:", err)
		return
	}

	rect, dispW, dispH, err := cropArgs(src, rectArgs)
	if err != nil {
		fmt.Println(err)
		return
	}

	jpeg, err := profile.CropSquare(src, rect, dispW, dispH)
	if err != nil {
		fmt.Println("Failed to crop picture:", err)
		return
	}
	filename, err := editor.SetPicture(ctx, jpeg)
	if err != nil {
		if !s.expired(err) {
			fmt.Println("Failed to upload picture:", err)
		}
		return
	}
	fmt.Println("Profile picture updated:", filename)
}

func (s *shell) cmdStorage(ctx context.Context) {
	if !s.requireLogin() {
		return
	}
	editor := profile.NewEditor(s.client, s.sessions)
	usage, err := editor.StorageUsage(ctx)
	if err != nil {
		if !s.expired(err) {
			fmt.Println("Failed to compute storage usage:", err)
		}
		return
	}
	fmt.Printf("Total storage used: %s / %s (%.1f%%)\n",
		formatSize(usage.Used), formatSize(usage.Quota), usage.Percent())
}

func (s *shell) cmdChat(ctx context.Context, message string) {
	if !s.requireLogin() {
		return
	}
	if s.chat == nil {
		s.chat = assistant.New(s.client, s.sessions.Get().User())
		fmt.Println("bot:", s.chat.Entries()[0].Text)
	}
	entry := s.chat.Send(ctx, message)
	fmt.Println("bot:", entry.Text)
	for _, suggestion := range entry.Suggestions {
		fmt.Println("  try:", suggestion)
	}
}

// cropArgs turns the optional "x y w h" arguments into a crop
// rectangle. With no arguments the largest centered square is used.
func cropArgs(src []byte, args []string) (profile.CropRect, int, int, error) {
	if len(args) == 0 {
		return profile.CenterSquare(src)
	}
	if len(args) != 4 {
		return profile.CropRect{}, 0, 0, errors.New("expected crop as: x y w h")
	}
	vals := make([]int, 4)
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return profile.CropRect{}, 0, 0, fmt.Errorf("bad crop value %q", arg)
		}
		vals[i] = v
	}
	w, h, err := profile.Dimensions(src)
	if err != nil {
		return profile.CropRect{}, 0, 0, err
	}
	return profile.CropRect{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}, w, h, nil
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024*1024:
		return fmt.Sprintf("%.2f GB", float64(bytes)/(1024*1024*1024))
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.2f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// main parses command-line flags and starts the interactive shell.
func main() {
	var (
		baseURL    string
		sessionDir string
		showVer    bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.StringVar(&sessionDir, "dir", ".", "directory holding the session file")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("Gallery Hub Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	sessions := session.NewStore(sessionDir)
	if err := sessions.Load(); err != nil {
		log.Fatal(err)
	}

	repl(newShell(baseURL, sessions))
}
