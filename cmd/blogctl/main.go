// Command blogctl is a CLI for the blog service. It talks to the server over
// HTTP by default, or over gRPC with -grpc, and caches the session token in
// ~/.blog_token between invocations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spec-kit/blog-service/pkg/client"
)

const tokenFileName = ".blog_token"

func main() {
	var (
		useGRPC = flag.Bool("grpc", false, "use the gRPC transport")
		server  = flag.String("server", "", "server address (default http://127.0.0.1:8080 or 127.0.0.1:50051 with -grpc)")
	)
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	addr := *server
	if addr == "" {
		if *useGRPC {
			addr = "127.0.0.1:50051"
		} else {
			addr = "http://127.0.0.1:8080"
		}
	}

	c, err := newClient(*useGRPC, addr)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer c.Close()

	if token, err := loadToken(); err == nil && token != "" {
		c.SetToken(token)
	}

	ctx := context.Background()
	if err := runCommand(ctx, c, args[0], args[1:]); err != nil {
		fatalf("%v", err)
	}
}

func newClient(useGRPC bool, addr string) (*client.BlogClient, error) {
	if useGRPC {
		return client.NewGRPC(addr)
	}
	return client.NewHTTP(addr), nil
}

func runCommand(ctx context.Context, c *client.BlogClient, command string, args []string) error {
	switch command {
	case "register":
		return cmdRegister(ctx, c, args)
	case "login":
		return cmdLogin(ctx, c, args)
	case "logout":
		return cmdLogout()
	case "create":
		return cmdCreate(ctx, c, args)
	case "get":
		return cmdGet(ctx, c, args)
	case "update":
		return cmdUpdate(ctx, c, args)
	case "delete":
		return cmdDelete(ctx, c, args)
	case "list":
		return cmdList(ctx, c, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func cmdRegister(ctx context.Context, c *client.BlogClient, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "username")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := c.Register(ctx, *username, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("registered %s <%s>, log in to get a token\n", user.Username, user.Email)
	return nil
}

func cmdLogin(ctx context.Context, c *client.BlogClient, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	expiresAt, err := c.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := saveToken(c.Token()); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	fmt.Printf("logged in, token saved (expires %s)\n", expiresAt.Format("2006-01-02 15:04:05"))
	return nil
}

func cmdLogout() error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	fmt.Println("logged out, local token discarded")
	return nil
}

func cmdCreate(ctx context.Context, c *client.BlogClient, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	title := fs.String("title", "", "post title")
	content := fs.String("content", "", "post content")
	if err := fs.Parse(args); err != nil {
		return err
	}

	post, err := c.CreatePost(ctx, *title, *content)
	if err != nil {
		return err
	}
	fmt.Printf("created post %s\n", post.ID)
	return nil
}

func cmdGet(ctx context.Context, c *client.BlogClient, args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	id := fs.String("id", "", "post id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	post, err := c.GetPost(ctx, *id)
	if err != nil {
		return err
	}
	printPost(post)
	return nil
}

func cmdUpdate(ctx context.Context, c *client.BlogClient, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	id := fs.String("id", "", "post id")
	title := fs.String("title", "", "new title (unchanged when empty)")
	content := fs.String("content", "", "new content (unchanged when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	post, err := c.UpdatePost(ctx, *id, *title, *content)
	if err != nil {
		return err
	}
	fmt.Printf("updated post %s\n", post.ID)
	return nil
}

func cmdDelete(ctx context.Context, c *client.BlogClient, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "post id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := c.DeletePost(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("deleted post %s\n", *id)
	return nil
}

func cmdList(ctx context.Context, c *client.BlogClient, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	limit := fs.Int("limit", 20, "max posts to return")
	offset := fs.Int("offset", 0, "posts to skip")
	if err := fs.Parse(args); err != nil {
		return err
	}

	posts, err := c.ListPosts(ctx, *limit, *offset)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Println("no posts")
		return nil
	}
	for i := range posts {
		printPost(&posts[i])
	}
	return nil
}

func printPost(post *client.Post) {
	fmt.Printf("%s  %s\n  %s\n", post.ID, post.Title, post.Content)
}

func tokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, tokenFileName), nil
}

func loadToken() (string, error) {
	path, err := tokenPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func saveToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: blogctl [-grpc] [-server ADDR] COMMAND [flags]

commands:
  register  -username NAME -email EMAIL -password PW
  login     -email EMAIL -password PW
  logout
  create    -title TITLE -content TEXT
  get       -id ID
  update    -id ID [-title TITLE] [-content TEXT]
  delete    -id ID
  list      [-limit N] [-offset N]
`)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "blogctl: "+format+"\n", args...)
	os.Exit(1)
}
