package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"restaurant-ordering-api/apperr"
	"restaurant-ordering-api/cart"
	"restaurant-ordering-api/logger"
	"restaurant-ordering-api/models"
	"restaurant-ordering-api/repository"
	"restaurant-ordering-api/session"
	"restaurant-ordering-api/testdb"
)

const sid = "session-1"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "expected %s, got %s", want, got)
}

type env struct {
	db          *gorm.DB
	f           *testdb.Fixture
	sessions    *session.MemoryStore
	carts       *CartService
	checkout    *CheckoutService
	restaurants *RestaurantService
	orders      *OrderService
}

func newEnv(t *testing.T, policy cart.Policy) *env {
	t.Helper()
	db := testdb.Open(t)
	f := testdb.Seed(t, db)
	log := logger.Nop()
	catalog := repository.NewCatalogRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	sessions := session.NewMemoryStore(policy, time.Hour)
	return &env{
		db:          db,
		f:           f,
		sessions:    sessions,
		carts:       NewCartService(catalog, sessions, log),
		checkout:    NewCheckoutService(sessions, orderRepo, log),
		restaurants: NewRestaurantService(catalog, repository.NewRestaurantRepository(db), log),
		orders:      NewOrderService(catalog, orderRepo),
	}
}

func uid(v uint) *uint { return &v }
func str(s string) *string { return &s }

func (e *env) addItems(t *testing.T, ids ...uint) {
	t.Helper()
	for _, id := range ids {
		_, _, err := e.carts.Add(context.Background(), sid, id)
		require.NoError(t, err)
	}
}

func (e *env) orderCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.Order{}).Count(&n).Error)
	return n
}

func TestCartScenarioAddAndTotals(t *testing.T) {
	e := newEnv(t, cart.PolicyMultiRestaurant)
	ctx := context.Background()

	c, _, err := e.carts.Add(ctx, sid, e.f.Pizza.ID)
	require.NoError(t, err)
	assertDecimal(t, "10.00", c.Total())

	c, res, err := e.carts.Add(ctx, sid, e.f.Pizza.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Line.Quantity)
	assertDecimal(t, "20.00", c.Total())

	_, _, err = e.carts.Add(ctx, sid, e.f.Salad.ID)
	require.NoError(t, err)
	_, summary, err := e.carts.View(ctx, sid)
	require.NoError(t, err)
	assertDecimal(t, "25.00", summary.Total)
	require.Len(t, summary.Buckets, 1)
	assert.Equal(t, "Napoli", summary.Buckets[0].RestaurantName)
}

func TestCartAddUnknownItem(t *testing.T) {
	e := newEnv(t, cart.PolicyMultiRestaurant)
	_, _, err := e.carts.Add(context.Background(), sid, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	c, _, err := e.carts.View(context.Background(), sid)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCartSingleRestaurantReplacement(t *testing.T) {
	e := newEnv(t, cart.PolicySingleRestaurant)
	ctx := context.Background()

	_, _, err := e.carts.Add(ctx, sid, e.f.Pizza.ID)
	require.NoError(t, err)
	_, _, err = e.carts.Add(ctx, sid, e.f.Salad.ID)
	require.NoError(t, err)

	c, res, err := e.carts.Add(ctx, sid, e.f.Kebab.ID)
	require.NoError(t, err)
	assert.True(t, res.Replaced)
	assert.Equal(t, e.f.Napoli.ID, res.ReplacedRestaurantID)
	assert.Equal(t, 1, c.LineCount())
	line, ok := c.Line(e.f.Kebab.ID)
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, e.f.Istanbul.ID, c.RestaurantID())
}

func TestCartQuantityAndRemoval(t *testing.T) {
	e := newEnv(t, cart.PolicyMultiRestaurant)
	ctx := context.Background()
	_, _, err := e.carts.Add(ctx, sid, e.f.Pizza.ID)
	require.NoError(t, err)

	for raw, want := range map[string]int{"7": 7, "999": 50, "abc": 1} {
		c, err := e.carts.SetQuantity(ctx, sid, e.f.Pizza.ID, raw)
		require.NoError(t, err)
		line, _ := c.Line(e.f.Pizza.ID)
		assert.Equalf(t, want, line.Quantity, "quantity %q", raw)
	}

	before, _, _ := e.carts.View(ctx, sid)
	after, err := e.carts.Remove(ctx, sid, e.f.Kebab.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Buckets(), after.Buckets())

	after, err = e.carts.Remove(ctx, sid, e.f.Pizza.ID)
	require.NoError(t, err)
	assert.True(t, after.IsEmpty())

	_, _, err = e.carts.Add(ctx, sid, e.f.Kebab.ID)
	require.NoError(t, err)
	cleared, err := e.carts.Clear(ctx, sid)
	require.NoError(t, err)
	assert.True(t, cleared.IsEmpty())
}

func TestCheckoutScenario(t *testing.T) {
	e := newEnv(t, cart.PolicyMultiRestaurant)
	ctx := context.Background()

	e.addItems(t, e.f.Pizza.ID, e.f.Pizza.ID, e.f.Salad.ID)

	ids, err := e.checkout.Checkout(ctx, sid, e.f.Customer.ID)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	order, err := e.orders.GetMine(ctx, ids[0], e.f.Customer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, e.f.Napoli.ID, order.RestaurantID)
	assertDecimal(t, "25.00", order.TotalPrice)
	require.Len(t, order.Items, 2)
	assertDecimal(t, "25.00", order.ItemsTotal())

	c, _, err := e.carts.View(ctx, sid)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCheckoutOneOrderPerRestaurant(t *testing.T) {
	e := newEnv(t, cart.PolicyMultiRestaurant)
	ctx := context.Background()

	e.addItems(t, e.f.Pizza.ID, e.f.Kebab.ID, e.f.Kebab.ID)

	ids, err := e.checkout.Checkout(ctx, sid, e.f.Customer.ID)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	mine, err := e.orders.ListMine(ctx, e.f.Customer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	totals := map[uint]string{}
	for _, o := range mine {
		totals[o.RestaurantID] = o.TotalPrice.StringFixed(2)
		assert.True(t, o.ItemsTotal().Equal(o.TotalPrice))
	}
	assert.Equal(t, "10.00", totals[e.f.Napoli.ID])
	assert.Equal(t, "25.00", totals[e.f.Istanbul.ID])
}

func TestCheckoutEmptyCart(t *testing.T) {
	e := newEnv(t, cart.PolicyMultiRestaurant)
	ctx := context.Background()

	ids, err := e.checkout.Checkout(ctx, sid, e.f.Customer.ID)
	assert.ErrorIs(t, err, apperr.ErrEmptyCart)
	assert.Nil(t, ids)

	var n int64
	require.NoError(t, e.db.Model(&models.Order{}).Count(&n).Error)
	assert.Zero(t, n)

	c, _, err := e.carts.View(ctx, sid)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, int64(0), c.Version(), "empty checkout must not write the cart")
}

func TestPriceSnapshotSurvivesCatalogChange(t *testing.T) {
	e := newEnv(t, cart.PolicyMultiRestaurant)
	ctx := context.Background()
	owner := uid(e.f.Owner.ID)

	e.addItems(t, e.f.Pizza.ID)
	_, err := e.restaurants.UpdateMenuItem(ctx, e.f.Pizza.ID, owner, MenuItemFields{Price: str("14.00")}, nil)
	require.NoError(t, err)

	c, _, err := e.carts.View(ctx, sid)
	require.NoError(t, err)
	assertDecimal(t, "10.00", c.Total())

	ids, err := e.checkout.Checkout(ctx, sid, e.f.Customer.ID)
	require.NoError(t, err)

	_, err = e.restaurants.UpdateMenuItem(ctx, e.f.Pizza.ID, owner, MenuItemFields{Price: str("3,99")}, nil)
	require.NoError(t, err)

	order, err := e.orders.GetMine(ctx, ids[0], e.f.Customer.ID)
	require.NoError(t, err)
	assertDecimal(t, "10.00", order.TotalPrice)
	assertDecimal(t, "10.00", order.Items[0].Price)

	// a fresh add picks up the new price
	c, _, err = e.carts.Add(ctx, sid, e.f.Pizza.ID)
	require.NoError(t, err)
	assertDecimal(t, "3.99", c.Total())
}

type failingWriter struct{ mock.Mock }

func (m *failingWriter) CreateOrders(ctx context.Context, orders []models.Order) error {
	args := m.Called(ctx, orders)
	return args.Error(0)
}

func TestCheckoutPersistenceFailureKeepsCart(t *testing.T) {
	e := newEnv(t, cart.PolicyMultiRestaurant)
	ctx := context.Background()
	e.addItems(t, e.f.Pizza.ID, e.f.Kebab.ID)

	writer := &failingWriter{}
	writer.On("CreateOrders", mock.Anything, mock.MatchedBy(func(orders []models.Order) bool {
		return len(orders) == 2
	})).Return(errors.New("connection reset")).Once()

	svc := NewCheckoutService(e.sessions, writer, logger.Nop())
	_, err := svc.Checkout(ctx, sid, e.f.Customer.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrPersistence)
	assert.True(t, apperr.Retryable(err))
	writer.AssertExpectations(t)

	c, _, err := e.carts.View(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 2, c.LineCount())
}

func TestCheckoutItemFailureRollsBackOrder(t *testing.T) {
	e := newEnv(t, cart.PolicyMultiRestaurant)
	ctx := context.Background()
	e.addItems(t, e.f.Pizza.ID, e.f.Salad.ID)

	err := e.db.Callback().Create().Before("gorm:create").Register("test:fail_order_items", func(tx *gorm.DB) {
		if tx.Statement.Table == "order_items" {
			tx.AddError(errors.New("disk full"))
		}
	})
	require.NoError(t, err)

	_, err = e.checkout.Checkout(ctx, sid, e.f.Customer.ID)
	assert.ErrorIs(t, err, apperr.ErrPersistence)

	var n int64
	require.NoError(t, e.db.Model(&models.Order{}).Count(&n).Error)
	assert.Zero(t, n, "order must not be visible without its items")

	c, _, err := e.carts.View(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 2, c.LineCount(), "cart must survive a failed checkout")
}

// gatedWriter holds CreateOrders until released so a second checkout can run
// while the first one is writing.
type gatedWriter struct {
	next    OrderWriter
	entered chan struct{}
	release chan struct{}
}

func (g *gatedWriter) CreateOrders(ctx context.Context, orders []models.Order) error {
	g.entered <- struct{}{}
	<-g.release
	return g.next.CreateOrders(ctx, orders)
}

func TestConcurrentCheckoutPlacesOrdersOnce(t *testing.T) {
	e := newEnv(t, cart.PolicyMultiRestaurant)
	ctx := context.Background()
	e.addItems(t, e.f.Pizza.ID, e.f.Kebab.ID)

	writer := &gatedWriter{
		next:    repository.NewOrderRepository(e.db),
		entered: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	svc := NewCheckoutService(e.sessions, writer, logger.Nop())

	type result struct {
		ids []uint
		err error
	}
	first := make(chan result, 1)
	go func() {
		ids, err := svc.Checkout(ctx, sid, e.f.Customer.ID)
		first <- result{ids, err}
	}()

	select {
	case <-writer.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first checkout never reached the order writer")
	}

	ids, err := svc.Checkout(ctx, sid, e.f.Customer.ID)
	assert.ErrorIs(t, err, apperr.ErrEmptyCart)
	assert.Nil(t, ids)

	close(writer.release)
	res := <-first
	require.NoError(t, res.err)
	assert.Len(t, res.ids, 2)
	assert.Equal(t, int64(2), e.orderCount(t))
	assert.Empty(t, writer.entered, "second checkout must not write orders")

	c, _, err := e.carts.View(ctx, sid)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCheckoutDeletedRestaurant(t *testing.T) {
	e := newEnv(t, cart.PolicyMultiRestaurant)
	ctx := context.Background()
	e.addItems(t, e.f.Pizza.ID, e.f.Kebab.ID)

	require.NoError(t, e.restaurants.DeleteRestaurant(ctx, e.f.Napoli.ID, uid(e.f.Owner.ID)))

	ids, err := e.checkout.Checkout(ctx, sid, e.f.Customer.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.False(t, apperr.Retryable(err))
	assert.Nil(t, ids)
	assert.Zero(t, e.orderCount(t), "no order may be placed for a deleted restaurant")

	c, _, err := e.carts.View(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 2, c.LineCount(), "cart must survive a failed checkout")

	_, err = e.carts.Remove(ctx, sid, e.f.Pizza.ID)
	require.NoError(t, err)
	ids, err = e.checkout.Checkout(ctx, sid, e.f.Customer.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestMaterialize(t *testing.T) {
	c := cart.New(cart.PolicyMultiRestaurant)
	c.Add(cart.Item{MenuItemID: 1, RestaurantID: 3, Name: "A", Price: dec("10.00")})
	c.Add(cart.Item{MenuItemID: 1, RestaurantID: 3, Name: "A", Price: dec("10.00")})
	c.Add(cart.Item{MenuItemID: 2, RestaurantID: 3, Name: "B", Price: dec("5.00")})

	orders := Materialize(c, 42)
	require.Len(t, orders, 1)
	o := orders[0]
	assert.Equal(t, uint(42), o.CustomerID)
	assert.Equal(t, uint(3), o.RestaurantID)
	assert.Equal(t, models.StatusPending, o.Status)
	assertDecimal(t, "25.00", o.TotalPrice)
	require.Len(t, o.Items, 2)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.True(t, o.ItemsTotal().Equal(o.TotalPrice))
}

func TestOwnershipGate(t *testing.T) {
	e := newEnv(t, cart.PolicyMultiRestaurant)
	ctx := context.Background()
	napoli := e.f.Napoli.ID
	pizza := e.f.Pizza.ID

	actors := map[string]*uint{
		"other owner": uid(e.f.OtherOwner.ID),
		"customer":    uid(e.f.Customer.ID),
		"anonymous":   nil,
	}
	for name, actor := range actors {
		t.Run(name, func(t *testing.T) {
			_, err := e.restaurants.UpdateRestaurant(ctx, napoli, actor, RestaurantFields{Name: str("Mine now")}, nil)
			assert.ErrorIs(t, err, apperr.ErrForbidden)
			assert.ErrorIs(t, e.restaurants.DeleteRestaurant(ctx, napoli, actor), apperr.ErrForbidden)

			_, err = e.restaurants.CreateMenuItem(ctx, napoli, actor, MenuItemFields{Name: str("Fake"), Price: str("1")}, nil)
			assert.ErrorIs(t, err, apperr.ErrForbidden)
			_, err = e.restaurants.UpdateMenuItem(ctx, pizza, actor, MenuItemFields{Price: str("0.01")}, nil)
			assert.ErrorIs(t, err, apperr.ErrForbidden)
			assert.ErrorIs(t, e.restaurants.DeleteMenuItem(ctx, pizza, actor), apperr.ErrForbidden)

			_, err = e.orders.ForRestaurant(ctx, napoli, actor)
			assert.ErrorIs(t, err, apperr.ErrForbidden)
		})
	}

	r, err := e.restaurants.catalog.GetRestaurant(ctx, napoli)
	require.NoError(t, err)
	assert.Equal(t, "Napoli", r.Name)
	item, err := e.restaurants.catalog.GetMenuItem(ctx, pizza)
	require.NoError(t, err)
	assertDecimal(t, "10.00", item.Price)
}

func TestOwnerManagesRestaurant(t *testing.T) {
	e := newEnv(t, cart.PolicyMultiRestaurant)
	ctx := context.Background()
	owner := uid(e.f.Owner.ID)

	img := &fakeImage{ref: "uploads/a.png"}
	r, err := e.restaurants.CreateRestaurant(ctx, e.f.Owner.ID, RestaurantFields{
		Name: str("  Trattoria "), Address: str("Main St 3"),
	}, img)
	require.NoError(t, err)
	assert.Equal(t, "Trattoria", r.Name)
	require.NotNil(t, r.ImagePath)
	assert.Equal(t, 1, img.stored)
	assert.Empty(t, img.discarded)

	r, err = e.restaurants.UpdateRestaurant(ctx, r.ID, owner, RestaurantFields{Description: str("family run")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Trattoria", r.Name)
	assert.Equal(t, "family run", r.Description)
	assert.Equal(t, "uploads/a.png", *r.ImagePath)

	item, err := e.restaurants.CreateMenuItem(ctx, r.ID, owner, MenuItemFields{Name: str("Lasagna"), Price: str("11,5")}, nil)
	require.NoError(t, err)
	assertDecimal(t, "11.50", item.Price)

	require.NoError(t, e.restaurants.DeleteMenuItem(ctx, item.ID, owner))
	require.NoError(t, e.restaurants.DeleteRestaurant(ctx, r.ID, owner))

	_, err = e.restaurants.UpdateRestaurant(ctx, r.ID, owner, RestaurantFields{}, nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

type fakeImage struct {
	ref       string
	err       error
	stored    int
	discarded []string
}

func (f *fakeImage) Store() (string, error) {
	f.stored++
	return f.ref, f.err
}

func (f *fakeImage) Discard(ref string) { f.discarded = append(f.discarded, ref) }

// brokenStore fails every write after the ownership lookup succeeded.
type brokenStore struct{ *repository.RestaurantRepository }

var errStoreDown = errors.New("database is gone")

func (brokenStore) Create(context.Context, *models.Restaurant) error { return errStoreDown }

func (brokenStore) Save(context.Context, *models.Restaurant) error { return errStoreDown }

func (brokenStore) CreateMenuItem(context.Context, *models.MenuItem) error { return errStoreDown }

func (brokenStore) SaveMenuItem(context.Context, *models.MenuItem) error { return errStoreDown }

func TestImageStoredOnlyForAcceptedChanges(t *testing.T) {
	e := newEnv(t, cart.PolicyMultiRestaurant)
	ctx := context.Background()
	napoli, pizza := e.f.Napoli.ID, e.f.Pizza.ID

	rejected := map[string]func(img Image) error{
		"anonymous update": func(img Image) error {
			_, err := e.restaurants.UpdateRestaurant(ctx, napoli, nil, RestaurantFields{}, img)
			return err
		},
		"other owner update": func(img Image) error {
			_, err := e.restaurants.UpdateRestaurant(ctx, napoli, uid(e.f.OtherOwner.ID), RestaurantFields{}, img)
			return err
		},
		"other owner menu item": func(img Image) error {
			_, err := e.restaurants.CreateMenuItem(ctx, napoli, uid(e.f.OtherOwner.ID), MenuItemFields{Name: str("X"), Price: str("1")}, img)
			return err
		},
		"other owner item update": func(img Image) error {
			_, err := e.restaurants.UpdateMenuItem(ctx, pizza, uid(e.f.OtherOwner.ID), MenuItemFields{}, img)
			return err
		},
		"invalid price": func(img Image) error {
			_, err := e.restaurants.CreateMenuItem(ctx, napoli, uid(e.f.Owner.ID), MenuItemFields{Name: str("X"), Price: str("-1")}, img)
			return err
		},
		"blank name": func(img Image) error {
			_, err := e.restaurants.CreateRestaurant(ctx, e.f.Owner.ID, RestaurantFields{Name: str(" ")}, img)
			return err
		},
		"unknown restaurant": func(img Image) error {
			_, err := e.restaurants.UpdateRestaurant(ctx, 9999, uid(e.f.Owner.ID), RestaurantFields{}, img)
			return err
		},
	}
	for name, call := range rejected {
		t.Run(name, func(t *testing.T) {
			img := &fakeImage{ref: "uploads/x.png"}
			require.Error(t, call(img))
			assert.Zero(t, img.stored)
		})
	}

	t.Run("store error", func(t *testing.T) {
		img := &fakeImage{err: apperr.Invalid("uploaded file is not an image")}
		_, err := e.restaurants.UpdateRestaurant(ctx, napoli, uid(e.f.Owner.ID), RestaurantFields{Name: str("Renamed")}, img)
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
		assert.Empty(t, img.discarded)

		r, err := repository.NewCatalogRepository(e.db).GetRestaurant(ctx, napoli)
		require.NoError(t, err)
		assert.Equal(t, e.f.Napoli.Name, r.Name)
	})
}

func TestImageDiscardedWhenWriteFails(t *testing.T) {
	e := newEnv(t, cart.PolicyMultiRestaurant)
	ctx := context.Background()
	owner := uid(e.f.Owner.ID)
	catalog := repository.NewCatalogRepository(e.db)
	svc := NewRestaurantService(catalog, brokenStore{repository.NewRestaurantRepository(e.db)}, logger.Nop())

	calls := map[string]func(img Image) error{
		"create restaurant": func(img Image) error {
			_, err := svc.CreateRestaurant(ctx, e.f.Owner.ID, RestaurantFields{Name: str("New")}, img)
			return err
		},
		"update restaurant": func(img Image) error {
			_, err := svc.UpdateRestaurant(ctx, e.f.Napoli.ID, owner, RestaurantFields{}, img)
			return err
		},
		"create menu item": func(img Image) error {
			_, err := svc.CreateMenuItem(ctx, e.f.Napoli.ID, owner, MenuItemFields{Name: str("X"), Price: str("1")}, img)
			return err
		},
		"update menu item": func(img Image) error {
			_, err := svc.UpdateMenuItem(ctx, e.f.Pizza.ID, owner, MenuItemFields{}, img)
			return err
		},
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			img := &fakeImage{ref: "uploads/" + name + ".png"}
			assert.ErrorIs(t, call(img), errStoreDown)
			assert.Equal(t, 1, img.stored)
			assert.Equal(t, []string{img.ref}, img.discarded)
		})
	}

	t.Run("without image", func(t *testing.T) {
		_, err := svc.UpdateRestaurant(ctx, e.f.Napoli.ID, owner, RestaurantFields{}, nil)
		assert.ErrorIs(t, err, errStoreDown)
	})
}

func TestRestaurantInputValidation(t *testing.T) {
	e := newEnv(t, cart.PolicyMultiRestaurant)
	ctx := context.Background()
	owner := uid(e.f.Owner.ID)

	_, err := e.restaurants.CreateRestaurant(ctx, e.f.Owner.ID, RestaurantFields{Name: str("   ")}, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = e.restaurants.UpdateRestaurant(ctx, e.f.Napoli.ID, owner, RestaurantFields{Name: str("")}, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	for _, price := range []string{"abc", "-1", ""} {
		_, err = e.restaurants.CreateMenuItem(ctx, e.f.Napoli.ID, owner, MenuItemFields{Name: str("X"), Price: str(price)}, nil)
		assert.ErrorIsf(t, err, apperr.ErrInvalidInput, "price %q", price)
	}
	_, err = e.restaurants.CreateMenuItem(ctx, e.f.Napoli.ID, owner, MenuItemFields{Name: str("X")}, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = e.restaurants.UpdateMenuItem(ctx, 9999, owner, MenuItemFields{}, nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestParsePrice(t *testing.T) {
	tests := map[string]string{
		"12.50":  "12.50",
		"12,5":   "12.50",
		" 0 ":    "0",
		"3.999":  "4.00",
		"100":    "100",
		"0,0001": "0",
	}
	for raw, want := range tests {
		got, err := ParsePrice(raw)
		require.NoErrorf(t, err, "price %q", raw)
		assertDecimal(t, want, got)
	}
}

func TestReviews(t *testing.T) {
	db := testdb.Open(t)
	f := testdb.Seed(t, db)
	catalog := repository.NewCatalogRepository(db)
	svc := NewReviewService(catalog, repository.NewCommentRepository(db))
	ctx := context.Background()

	c, err := svc.AddReview(ctx, f.Napoli.ID, f.Customer.ID, "  lovely  ", "9")
	require.NoError(t, err)
	assert.Equal(t, "lovely", c.Content)
	assert.Equal(t, 5, c.Rating)

	c, err = svc.AddReview(ctx, f.Napoli.ID, f.Customer.ID, "meh", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Rating)

	_, err = svc.AddReview(ctx, f.Napoli.ID, f.Customer.ID, "   ", "3")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.AddReview(ctx, 999, f.Customer.ID, "where?", "3")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	list, err := svc.ListReviews(ctx, f.Napoli.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "meh", list[0].Content)

	r, err := catalog.GetRestaurant(ctx, f.Napoli.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, r.Rating, 0.001)
}

func TestParseRating(t *testing.T) {
	tests := map[string]int{"3": 3, "0": 1, "-2": 1, "6": 5, "": 5, "x": 5, " 4 ": 4}
	for raw, want := range tests {
		assert.Equalf(t, want, ParseRating(raw), "rating %q", raw)
	}
}

func TestOrderVisibility(t *testing.T) {
	e := newEnv(t, cart.PolicyMultiRestaurant)
	ctx := context.Background()
	e.addItems(t, e.f.Pizza.ID)
	ids, err := e.checkout.Checkout(ctx, sid, e.f.Customer.ID)
	require.NoError(t, err)

	_, err = e.orders.GetMine(ctx, ids[0], e.f.OtherOwner.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = e.orders.GetMine(ctx, 12345, e.f.Customer.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	list, err := e.orders.ForRestaurant(ctx, e.f.Napoli.ID, uid(e.f.Owner.ID))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ids[0], list[0].ID)
}

func TestAuthService(t *testing.T) {
	db := testdb.Open(t)
	svc := NewAuthService(repository.NewUserRepository(db))
	svc.cost = bcrypt.MinCost
	ctx := context.Background()

	u, err := svc.Register(ctx, " ada ", "Ada@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ada", u.Username)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	_, err = svc.Register(ctx, "ada2", "ada@example.com", "x")
	assert.ErrorIs(t, err, apperr.ErrDuplicate)
	_, err = svc.Register(ctx, "ada", "other@example.com", "x")
	assert.ErrorIs(t, err, apperr.ErrDuplicate)
	_, err = svc.Register(ctx, "", "e@example.com", "x")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	got, err := svc.Authenticate(ctx, "ADA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = svc.Authenticate(ctx, "ghost@example.com", "secret1")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	p, err := svc.Profile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada", p.Username)
}
