package kvstore

import (
	"fmt"
	"log"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	BusPath      = dbus.ObjectPath("/org/example/Annotate")
	BusInterface = "org.example.Annotate.Store"
	BusMember    = "Changed"
)

// DBus wraps a store and announces every write on the session bus.
// Subscribers receive the writes announced by other connections.
type DBus struct {
	Store

	conn    *dbus.Conn
	self    string
	signals chan *dbus.Signal
	done    chan struct{}
	subs    subscribers

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewDBus connects to the session bus. The inner store should not watch
// for changes itself, or subscribers would hear each write twice.
func NewDBus(inner Store) (*DBus, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(BusPath),
		dbus.WithMatchInterface(BusInterface),
		dbus.WithMatchMember(BusMember),
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("match store signal: %w", err)
	}
	d := &DBus{Store: inner, conn: conn, signals: make(chan *dbus.Signal, 16), done: make(chan struct{})}
	if names := conn.Names(); len(names) > 0 {
		d.self = names[0]
	}
	conn.Signal(d.signals)
	d.wg.Add(1)
	go d.listen()
	return d, nil
}

func (d *DBus) Set(key, value string) error {
	if err := d.Store.Set(key, value); err != nil {
		return err
	}
	return d.emit(Change{Key: key, Value: value})
}

func (d *DBus) Delete(key string) error {
	if err := d.Store.Delete(key); err != nil {
		return err
	}
	return d.emit(Change{Key: key, Deleted: true})
}

func (d *DBus) emit(c Change) error {
	if err := d.conn.Emit(BusPath, BusInterface+"."+BusMember, c.Key, c.Value, c.Deleted); err != nil {
		return fmt.Errorf("emit %s: %w", c.Key, err)
	}
	return nil
}

func (d *DBus) Subscribe(fn func(Change)) func() { return d.subs.add(fn) }

func (d *DBus) listen() {
	defer d.wg.Done()
	for {
		select {
		case <-d.done:
			return
		case sig := <-d.signals:
			if c, ok := d.decode(sig); ok {
				d.subs.publish(c)
			}
		}
	}
}

func (d *DBus) decode(sig *dbus.Signal) (Change, bool) {
	if sig == nil || sig.Path != BusPath || sig.Name != BusInterface+"."+BusMember {
		return Change{}, false
	}
	if sig.Sender == d.self {
		return Change{}, false
	}
	var c Change
	if err := dbus.Store(sig.Body, &c.Key, &c.Value, &c.Deleted); err != nil {
		log.Printf("kvstore: bad %s signal from %s: %v", BusMember, sig.Sender, err)
		return Change{}, false
	}
	return c, true
}

// Close disconnects from the bus and closes the inner store.
func (d *DBus) Close() error {
	var err error
	d.closeOnce.Do(func() {
		d.conn.RemoveSignal(d.signals)
		close(d.done)
		d.wg.Wait()
		err = d.conn.Close()
		d.subs.clear()
		if cerr := d.Store.Close(); err == nil {
			err = cerr
		}
	})
	return err
}
