// partnerctl is a command-line partner dashboard. It signs a partner in,
// shows the reconciled profile and edits one section per command, saving
// it straight to the partner backend.
//
// Commands:
//
//	partnerctl login -email E -password P
//	partnerctl logout
//	partnerctl whoami
//	partnerctl show -category C
//	partnerctl add-offer -category C -text "10% off"
//	partnerctl delete-offer -category C -index N
//	partnerctl set-room -type "Single Sharing" -rent 6000 [-deposit 12000]
//	partnerctl amenity -group furniture -label Bed
//	partnerctl add-rule -text "No smoking"
//	partnerctl upload-photo -category C -slot room -file room.jpg
//	partnerctl signup -name N -email E -phone P -password P -business B -category C -area A [...]
//
// Identity is kept in the sqlite file named by SESSION_DB between runs.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"partner-sync/internal/config"
	"partner-sync/internal/dashboard"
	"partner-sync/internal/identity"
	"partner-sync/internal/model"
	"partner-sync/internal/normalize"
	"partner-sync/internal/partnerapi"
	"partner-sync/internal/reconcile"
	"partner-sync/internal/session"
	"partner-sync/internal/signup"
)

// Global flags (apply to all commands)
var (
	quiet   bool
	noColor bool
	verbose bool
)

// ANSI color codes
var (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		disableColors()
	}
}

func disableColors() {
	colorReset, colorRed, colorGreen, colorYellow = "", "", "", ""
	colorCyan, colorGray = "", ""
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "login":
		runLogin(args)
	case "logout":
		runLogout(args)
	case "whoami":
		runWhoami(args)
	case "show":
		runShow(args)
	case "add-offer":
		runAddOffer(args)
	case "delete-offer":
		runDeleteOffer(args)
	case "set-room":
		runSetRoom(args)
	case "amenity":
		runAmenity(args)
	case "add-rule":
		runAddRule(args)
	case "upload-photo":
		runUploadPhoto(args)
	case "signup":
		runSignup(args)
	case "-h", "-help", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `partnerctl - partner dashboard from the command line

Usage:
  partnerctl <command> [options]

Commands:
  login         Sign in and remember the partner
  logout        Forget the stored partner
  whoami        Print the partner email in use
  show          Show the reconciled profile
  add-offer     Add an offer and save the offers section
  delete-offer  Delete an offer by index and save the offers section
  set-room      Set a room type's rent/deposit and save pricing
  amenity       Toggle an amenity and save details
  add-rule      Add a house rule and save rules
  upload-photo  Upload a photo into a slot and save photos
  signup        Register a new partner

Examples:
  partnerctl login -email owner@example.com -password secret
  partnerctl show -category accommodation
  partnerctl set-room -type "Double Sharing" -rent 5500 -deposit 11000
  partnerctl delete-offer -category food -index 1

Run 'partnerctl <command> -h' for command-specific options.
`)
}

// =============================================================================
// SETUP
// =============================================================================

// app bundles what every command needs.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	client   *partnerapi.Client
	store    *session.SQLStore
	resolver *identity.Resolver
}

func commonFlags(fs *flag.FlagSet) {
	fs.BoolVar(&quiet, "q", false, "Quiet mode - only print the essential value")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&verbose, "v", false, "Verbose - log backend requests")
}

func setup(ctx context.Context) *app {
	if noColor {
		disableColors()
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		fatal("Loading config: %v", err)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	store, err := session.OpenSQLStore(cfg.SessionDB)
	if err != nil {
		fatal("Opening session store: %v", err)
	}

	client, err := partnerapi.New(partnerapi.Config{
		BaseURL:   cfg.Partner.APIBaseURL,
		Token:     cfg.Partner.APIToken,
		Timeout:   cfg.HTTPTimeout,
		ChromeTLS: cfg.ChromeTLS,
		Logger:    logger,
	})
	if err != nil {
		fatal("Creating client: %v", err)
	}
	if token := storedToken(ctx, store); token != "" {
		client = client.WithToken(token)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		client:   client,
		store:    store,
		resolver: identity.NewResolver(session.NewMemoryStore(), store, logger),
	}
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing session store", slog.String("error", err.Error()))
	}
}

// storedToken reads the bearer token saved by login, if any.
func storedToken(ctx context.Context, store session.Store) string {
	blob, err := store.Get(ctx, session.KeyPartnerSession)
	if err != nil {
		return ""
	}
	var s struct {
		Token string `json:"token"`
	}
	if json.Unmarshal([]byte(blob), &s) != nil {
		return ""
	}
	return s.Token
}

func parseCategory(raw string) model.Category {
	c, ok := model.ParseCategory(raw)
	if !ok {
		fatal("Unknown category %q (one of %s)", raw, categoryList())
	}
	return c
}

func categoryList() string {
	names := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// openDashboard hydrates a dashboard session for category. A missing
// identity ends the command; any other load failure is returned with the
// session still usable from the defaults.
func (a *app) openDashboard(ctx context.Context, category model.Category) (*dashboard.Session, error) {
	s := dashboard.New(dashboard.Options{
		Backend:  a.client,
		Resolver: a.resolver,
		Decoder:  &normalize.Decoder{CDNBase: a.cfg.Partner.CDNBase(), Logger: a.logger},
		Category: category,
		Logger:   a.logger,
	})
	err := s.Load(ctx)
	if errors.Is(err, model.ErrIdentityNotFound) {
		a.fatal("%s", model.UserMessage(err))
	}
	return s, err
}

// editAndSave applies fn to the draft and saves section. It refuses to save
// when the profile could not be read, since sections replace their remote
// lists wholesale.
func (a *app) editAndSave(ctx context.Context, category model.Category, section model.Section, fn func(p *model.BusinessProfile) error) model.BusinessProfile {
	s, err := a.openDashboard(ctx, category)
	defer s.Close()
	if !s.ReflectsRemote() {
		a.fatal("Could not load profile, not saving %s: %s", section, model.UserMessage(err))
	}

	var editErr error
	if err := s.Edit(func(p *model.BusinessProfile) { editErr = fn(p) }); err != nil {
		a.fatal("Editing profile: %v", err)
	}
	if editErr != nil {
		a.fatal("%v", editErr)
	}
	if err := s.Save(ctx, section); err != nil {
		a.fatal("Saving %s: %s", section, model.UserMessage(err))
	}
	printSuccess("Saved %s", section)
	return s.Profile()
}

// fatal closes the session store before exiting.
func (a *app) fatal(format string, args ...any) {
	a.close()
	fatal(format, args...)
}

// =============================================================================
// IDENTITY COMMANDS
// =============================================================================

func runLogin(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	var email, password, googleCredential string
	fs.StringVar(&email, "email", "", "Partner email")
	fs.StringVar(&password, "password", "", "Password")
	fs.StringVar(&googleCredential, "google-credential", "", "Google ID token, instead of email and password")
	commonFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: partnerctl login (-email E -password P | -google-credential T) [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if googleCredential == "" && (email == "" || password == "") {
		fs.Usage()
		os.Exit(1)
	}

	ctx := context.Background()
	a := setup(ctx)
	defer a.close()

	var auth *partnerapi.AuthSession
	var err error
	if googleCredential != "" {
		auth, err = a.client.GoogleAuth(ctx, googleCredential, a.cfg.Partner.GoogleClientID)
	} else {
		auth, err = a.client.Login(ctx, partnerapi.Credentials{Email: email, Password: password})
	}
	if err != nil {
		a.fatal("Login failed: %s", model.UserMessage(err))
	}

	if auth.User.Email != "" {
		email = auth.User.Email
	}
	if email == "" {
		a.fatal("Login response carried no email")
	}
	extra := map[string]any{"token": auth.Token, "user": auth.User}
	if err := identity.Remember(ctx, a.store, email, extra); err != nil {
		a.fatal("Storing session: %v", err)
	}

	if quiet {
		fmt.Println(email)
		return
	}
	printSuccess("Signed in")
	fmt.Printf("  Email: %s%s%s\n", colorCyan, email, colorReset)
}

func runLogout(args []string) {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	commonFlags(fs)
	fs.Parse(args)

	ctx := context.Background()
	a := setup(ctx)
	defer a.close()

	if err := identity.Forget(ctx, a.store); err != nil {
		a.fatal("Clearing session: %v", err)
	}
	printSuccess("Signed out")
}

func runWhoami(args []string) {
	fs := flag.NewFlagSet("whoami", flag.ExitOnError)
	commonFlags(fs)
	fs.Parse(args)

	ctx := context.Background()
	a := setup(ctx)
	defer a.close()

	email, err := a.resolver.Resolve(ctx, nil)
	if err != nil {
		a.fatal("%s", model.UserMessage(err))
	}
	fmt.Println(email)
}

// =============================================================================
// PROFILE COMMANDS
// =============================================================================

func runShow(args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	var category string
	var asJSON bool
	fs.StringVar(&category, "category", "", "Business category (required)")
	fs.BoolVar(&asJSON, "json", false, "Print the full profile as JSON")
	commonFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: partnerctl show -category C [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if category == "" {
		fs.Usage()
		os.Exit(1)
	}
	c := parseCategory(category)

	ctx := context.Background()
	a := setup(ctx)
	defer a.close()

	s, err := a.openDashboard(ctx, c)
	defer s.Close()
	if err != nil {
		printWarning("Could not load profile, showing defaults: %s", model.UserMessage(err))
	}
	p := s.Profile()

	if asJSON {
		data, _ := json.MarshalIndent(p, "", "  ")
		fmt.Println(string(data))
		return
	}
	printProfile(p)
}

func runAddOffer(args []string) {
	fs := flag.NewFlagSet("add-offer", flag.ExitOnError)
	var category, text string
	fs.StringVar(&category, "category", "", "Business category (required)")
	fs.StringVar(&text, "text", "", "Offer text (required)")
	commonFlags(fs)
	fs.Parse(args)

	if category == "" || strings.TrimSpace(text) == "" {
		fs.Usage()
		os.Exit(1)
	}
	c := parseCategory(category)

	ctx := context.Background()
	a := setup(ctx)
	defer a.close()

	p := a.editAndSave(ctx, c, model.SectionOffers, func(p *model.BusinessProfile) error {
		p.Offers = reconcile.AddOffer(p.Offers, text)
		return nil
	})
	printList("Offers", p.Offers)
}

func runDeleteOffer(args []string) {
	fs := flag.NewFlagSet("delete-offer", flag.ExitOnError)
	var category string
	var index int
	fs.StringVar(&category, "category", "", "Business category (required)")
	fs.IntVar(&index, "index", -1, "Zero-based offer index (required)")
	commonFlags(fs)
	fs.Parse(args)

	if category == "" || index < 0 {
		fs.Usage()
		os.Exit(1)
	}
	c := parseCategory(category)

	ctx := context.Background()
	a := setup(ctx)
	defer a.close()

	p := a.editAndSave(ctx, c, model.SectionOffers, func(p *model.BusinessProfile) error {
		if index >= len(p.Offers) {
			return fmt.Errorf("no offer at index %d (have %d)", index, len(p.Offers))
		}
		p.Offers = reconcile.DeleteOffer(p.Offers, index)
		return nil
	})
	printList("Offers", p.Offers)
}

func runSetRoom(args []string) {
	fs := flag.NewFlagSet("set-room", flag.ExitOnError)
	var roomType string
	var rent, deposit float64
	fs.StringVar(&roomType, "type", "", "Room type, e.g. \"Single Sharing\" or single (required)")
	fs.Float64Var(&rent, "rent", -1, "Monthly rent")
	fs.Float64Var(&deposit, "deposit", -1, "Security deposit")
	commonFlags(fs)
	fs.Parse(args)

	if roomType == "" || (rent < 0 && deposit < 0) {
		fs.Usage()
		os.Exit(1)
	}
	name := normalize.RoomTypeLabel(roomType)

	ctx := context.Background()
	a := setup(ctx)
	defer a.close()

	p := a.editAndSave(ctx, model.CategoryAccommodation, model.SectionPricing, func(p *model.BusinessProfile) error {
		if rent >= 0 {
			p.RoomTypes = reconcile.UpsertPricedField(p.RoomTypes, name, reconcile.FieldRent, rent)
		}
		if deposit >= 0 {
			p.RoomTypes = reconcile.UpsertPricedField(p.RoomTypes, name, reconcile.FieldDeposit, deposit)
		}
		return nil
	})
	printPriced("Room pricing", p.RoomTypes)
}

func runAmenity(args []string) {
	fs := flag.NewFlagSet("amenity", flag.ExitOnError)
	var group, label string
	fs.StringVar(&group, "group", "", "Amenity group: "+strings.Join(model.AmenityCategories(), ", ")+" (required)")
	fs.StringVar(&label, "label", "", "Amenity label (required)")
	commonFlags(fs)
	fs.Parse(args)

	if group == "" || label == "" {
		fs.Usage()
		os.Exit(1)
	}

	ctx := context.Background()
	a := setup(ctx)
	defer a.close()

	p := a.editAndSave(ctx, model.CategoryAccommodation, model.SectionDetails, func(p *model.BusinessProfile) error {
		p.Amenities = reconcile.ToggleAmenity(p.Amenities, group, label)
		return nil
	})
	printList("Amenities ("+group+")", p.Amenities[group])
}

func runAddRule(args []string) {
	fs := flag.NewFlagSet("add-rule", flag.ExitOnError)
	var text, fine string
	var noOutsiders, allowOutsiders bool
	fs.StringVar(&text, "text", "", "Rule text")
	fs.StringVar(&fine, "fine", "", "Fine amount for rule violations")
	fs.BoolVar(&noOutsiders, "no-outsiders", false, "Disallow outsiders")
	fs.BoolVar(&allowOutsiders, "allow-outsiders", false, "Allow outsiders")
	commonFlags(fs)
	fs.Parse(args)

	if text == "" && fine == "" && !noOutsiders && !allowOutsiders {
		fs.Usage()
		os.Exit(1)
	}

	ctx := context.Background()
	a := setup(ctx)
	defer a.close()

	p := a.editAndSave(ctx, model.CategoryAccommodation, model.SectionRules, func(p *model.BusinessProfile) error {
		if text != "" {
			p.Rules.Draft = text
			p.Rules = reconcile.AddRule(p.Rules)
		}
		if fine != "" {
			p.Rules.FineAmount = fine
		}
		switch {
		case noOutsiders:
			p.Rules.NoOutsiders = true
		case allowOutsiders:
			p.Rules.NoOutsiders = false
		}
		return nil
	})
	printList("Rules", p.Rules.Saved)
}

func runUploadPhoto(args []string) {
	fs := flag.NewFlagSet("upload-photo", flag.ExitOnError)
	var category, slot, file string
	fs.StringVar(&category, "category", "", "Business category (required)")
	fs.StringVar(&slot, "slot", "", "Photo slot (required)")
	fs.StringVar(&file, "file", "", "Image file path (required)")
	commonFlags(fs)
	fs.Parse(args)

	if category == "" || slot == "" || file == "" {
		fs.Usage()
		os.Exit(1)
	}
	c := parseCategory(category)

	local, err := readImage(file)
	if err != nil {
		fatal("Reading %s: %v", file, err)
	}

	ctx := context.Background()
	a := setup(ctx)
	defer a.close()

	p := a.editAndSave(ctx, c, model.SectionPhotos, func(p *model.BusinessProfile) error {
		ref := p.Photos[slot]
		ref.Local = local
		p.Photos[slot] = ref
		return nil
	})
	if quiet {
		fmt.Println(p.Photos[slot].URL)
		return
	}
	fmt.Printf("  %s: %s%s%s\n", slot, colorCyan, p.Photos[slot].URL, colorReset)
}

// readImage loads a photo preview and sniffs its content type.
func readImage(path string) (*model.LocalFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("not an image (%s)", contentType)
	}
	return &model.LocalFile{
		FileName:    filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// =============================================================================
// SIGNUP COMMAND
// =============================================================================

func runSignup(args []string) {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	var form signup.Form
	var category string
	fs.StringVar(&form.Account.OwnerName, "name", "", "Owner name")
	fs.StringVar(&form.Account.Email, "email", "", "Email")
	fs.StringVar(&form.Account.PhoneNumber, "phone", "", "10 digit phone number")
	fs.StringVar(&form.Account.Password, "password", "", "Password (6+ characters)")
	fs.StringVar(&form.Business.BusinessName, "business", "", "Business name")
	fs.StringVar(&category, "category", "", "Business category: "+categoryList())
	fs.StringVar(&form.Business.LocationArea, "area", "", "Location area")
	fs.StringVar(&form.Accommodation.RoomsAvailable, "rooms", "", "Rooms available (accommodation)")
	fs.StringVar(&form.Accommodation.Gender, "gender", "", "Male, Female or Co-living (accommodation)")
	fs.StringVar(&form.Accommodation.NoticePeriod, "notice", "", "Notice period in days (accommodation)")
	fs.StringVar(&form.Store.DeliveryCharge, "delivery-charge", "", "Delivery charge (stores)")
	fs.StringVar(&form.Store.TradeType, "trade", "", "retail, wholesale or both (stores)")
	fs.StringVar(&form.Store.StoreType, "store-type", "", "Store type (stores)")
	commonFlags(fs)
	fs.Parse(args)

	if c, ok := model.ParseCategory(category); ok {
		form.Business.Category = c
	} else {
		form.Business.Category = model.Category(category)
	}

	if step, err := form.Validate(); err != nil {
		printError("Step %s is incomplete", step)
		var fe model.FieldErrors
		if errors.As(err, &fe) {
			fields := make([]string, 0, len(fe))
			for field := range fe {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			for _, field := range fields {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", field, fe[field])
			}
		} else {
			fmt.Fprintf(os.Stderr, "  %s\n", model.UserMessage(err))
		}
		os.Exit(1)
	}

	ctx := context.Background()
	a := setup(ctx)
	defer a.close()

	ack, err := a.client.PartnerSignup(ctx, form.Payload())
	if err != nil {
		a.fatal("Signup failed: %s", model.UserMessage(err))
	}

	user := form.ContextUser()
	if err := identity.Remember(ctx, a.store, user.Email, map[string]any{"basicDetails": user.BasicDetails}); err != nil {
		a.fatal("Storing session: %v", err)
	}

	// Seed the new profile with what the form already knows.
	s := dashboard.New(dashboard.Options{
		Backend:  a.client,
		Resolver: a.resolver,
		Category: form.Business.Category,
		Current:  user,
		Defaults: form.Defaults(),
		Logger:   a.logger,
	})
	defer s.Close()
	if err := s.Load(ctx); err != nil && !s.ReflectsRemote() {
		printWarning("Registered, but the profile could not be read back: %s", model.UserMessage(err))
	}

	if ack.Message != "" {
		printInfo("%s", ack.Message)
	}
	printSuccess("Partner registered")
	printProfile(s.Profile())
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func printProfile(p model.BusinessProfile) {
	if quiet {
		fmt.Println(p.BusinessName)
		return
	}
	fmt.Printf("%s%s%s (%s)\n", colorCyan, p.BusinessName, colorReset, p.Category)
	printField("Owner", p.OwnerName)
	printField("Email", p.Email)
	printField("Phone", p.PhoneNumber)
	printField("Location", p.LocationArea)
	if p.Category == model.CategoryAccommodation {
		printField("Rooms", p.RoomsAvailable)
		printField("Gender", p.Gender)
		printField("Notice period", p.NoticePeriod)
		printPriced("Room pricing", p.RoomTypes)
		printList("Rules", p.Rules.Saved)
	} else {
		printField("Delivery charge", p.DeliveryCharge)
		printField("Trade type", p.TradeType)
		printField("Store type", p.StoreType)
		printPriced("Catalog", p.Catalog)
	}
	printList("Offers", p.Offers)
	for _, slot := range model.PhotoSlots(p.Category) {
		if ref, ok := p.Photos[slot]; ok {
			printField("Photo "+slot, ref.URL)
		}
	}
}

func printField(name, value string) {
	if value == "" {
		value = colorGray + "-" + colorReset
	}
	fmt.Printf("  %-16s %s\n", name+":", value)
}

func printList(title string, items []string) {
	if quiet {
		return
	}
	fmt.Printf("  %s%s:%s\n", colorYellow, title, colorReset)
	if len(items) == 0 {
		fmt.Printf("    %s(none)%s\n", colorGray, colorReset)
	}
	for i, item := range items {
		fmt.Printf("    %d. %s\n", i, item)
	}
}

func printPriced(title string, items []model.PricedItem) {
	if quiet {
		return
	}
	fmt.Printf("  %s%s:%s\n", colorYellow, title, colorReset)
	if len(items) == 0 {
		fmt.Printf("    %s(none)%s\n", colorGray, colorReset)
	}
	for _, item := range items {
		line := fmt.Sprintf("    - %s: %s", item.Name, model.FormatAmount(item.Rent))
		if item.Deposit > 0 {
			line += " (deposit " + model.FormatAmount(item.Deposit) + ")"
		}
		if item.Stock > 0 {
			line += " stock " + strconv.Itoa(item.Stock)
		}
		fmt.Println(line)
	}
}

func printSuccess(format string, args ...any) {
	if !quiet {
		fmt.Printf("%s✓ %s%s\n", colorGreen, fmt.Sprintf(format, args...), colorReset)
	}
}

func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s✗ %s%s\n", colorRed, fmt.Sprintf(format, args...), colorReset)
}

func printWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s⚠ %s%s\n", colorYellow, fmt.Sprintf(format, args...), colorReset)
}

func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Printf("%s→ %s%s\n", colorGray, fmt.Sprintf(format, args...), colorReset)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s✗ %s%s\n", colorRed, fmt.Sprintf(format, args...), colorReset)
	os.Exit(1)
}
