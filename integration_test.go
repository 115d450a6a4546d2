package bootguard_test

import (
	"path/filepath"
	"testing"

	"github.com/bootguard-fw/bootguard-go/pkg/diag"
	"github.com/bootguard-fw/bootguard-go/pkg/exception"
	"github.com/bootguard-fw/bootguard-go/pkg/memprot"
	"github.com/bootguard-fw/bootguard-go/pkg/nvstore"
	"github.com/bootguard-fw/bootguard-go/pkg/policy"
	"github.com/bootguard-fw/bootguard-go/pkg/reset"
	"github.com/bootguard-fw/bootguard-go/pkg/services"
)

type bootResult struct {
	guard    *memprot.Guard
	registry *services.Registry
	table    *exception.Table
	resets   []reset.Kind
}

// bootOnce wires a fresh registry, table and guard over the shared
// store and sink, the way a single boot session would.
func bootOnce(t *testing.T, store nvstore.Store, sink diag.Sink, cfg policy.Config) *bootResult {
	t.Helper()

	result := &bootResult{
		registry: services.NewRegistry(),
		table:    exception.NewTable(),
	}

	flag, err := policy.ReadFlag(store)
	if err != nil {
		t.Fatalf("Failed to read flag: %v", err)
	}

	guard, err := memprot.New(memprot.Config{
		GlobalToggle: policy.Effective(cfg, flag),
		Registry:     result.registry,
		Store:        store,
		Reset: reset.Func(func(kind reset.Kind, status reset.Status, _ []byte) {
			result.resets = append(result.resets, kind)
			if status != reset.Success {
				t.Errorf("expected Success reset status, got %s", status)
			}
		}),
		Sink: sink,
	})
	if err != nil {
		t.Fatalf("Failed to create guard: %v", err)
	}
	result.guard = guard

	if err := guard.Initialize(); err != nil {
		t.Fatalf("Failed to initialize guard: %v", err)
	}
	return result
}

// TestE2E_FaultDisablesProtectionsAcrossBoots plays the full life
// cycle: boot one arms the guard, registers on dispatch availability,
// takes a page fault and persists the disable flag before requesting a
// warm reset; boot two then comes up with protections disabled, and a
// flag clear rearms boot three.
func TestE2E_FaultDisablesProtectionsAcrossBoots(t *testing.T) {
	dir := t.TempDir()
	store := nvstore.NewFileStore(filepath.Join(dir, "bootguard.flag"))
	cfg := policy.DefaultConfig()

	sink, err := diag.NewFileSink(filepath.Join(dir, "boot.blog"))
	if err != nil {
		t.Fatalf("Failed to create diag sink: %v", err)
	}
	defer sink.Close()

	// Boot 1: deferred registration, then a fault.
	boot1 := bootOnce(t, store, sink, cfg)
	if boot1.guard.State() != memprot.StateArmed {
		t.Fatalf("expected ARMED after init, got %s", boot1.guard.State())
	}
	if boot1.guard.Registered() {
		t.Fatal("handler must not register before dispatch service exists")
	}

	if err := boot1.registry.Install(services.DispatchService, boot1.table); err != nil {
		t.Fatalf("Failed to install dispatch service: %v", err)
	}
	if !boot1.guard.Registered() {
		t.Fatal("handler must register once dispatch service is installed")
	}
	if !boot1.table.Registered(exception.PageFault) {
		t.Fatal("page fault vector must be claimed in the dispatch table")
	}

	ctx := &exception.Context{
		Rip:          0xffffffff80001234,
		ErrorCode:    0x2,
		FaultAddress: 0xdead0000,
	}
	if err := boot1.table.Dispatch(exception.PageFault, ctx); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if boot1.guard.State() != memprot.StateResetting {
		t.Fatalf("expected RESETTING after fault, got %s", boot1.guard.State())
	}
	if len(boot1.resets) != 1 || boot1.resets[0] != reset.Warm {
		t.Fatalf("expected one warm reset, got %v", boot1.resets)
	}

	flag, err := policy.ReadFlag(store)
	if err != nil {
		t.Fatalf("Failed to read flag: %v", err)
	}
	if !flag.Valid() || !flag.Disabled() {
		t.Fatalf("expected valid disable flag, got %s", flag)
	}

	// Boot 2: the flag disables the guard entirely.
	boot2 := bootOnce(t, store, sink, cfg)
	if boot2.guard.State() != memprot.StateDisabled {
		t.Fatalf("expected DISABLED on next boot, got %s", boot2.guard.State())
	}

	if err := boot2.registry.Install(services.DispatchService, boot2.table); err != nil {
		t.Fatalf("Failed to install dispatch service: %v", err)
	}
	if boot2.guard.Registered() {
		t.Fatal("disabled guard must not register a handler")
	}
	if boot2.table.Registered(exception.PageFault) {
		t.Fatal("page fault vector must stay vacant when disabled")
	}

	// Clearing the flag rearms the next boot.
	if err := policy.ClearFlag(store); err != nil {
		t.Fatalf("Failed to clear flag: %v", err)
	}
	boot3 := bootOnce(t, store, sink, cfg)
	if boot3.guard.State() != memprot.StateArmed {
		t.Fatalf("expected ARMED after flag clear, got %s", boot3.guard.State())
	}
}

// TestE2E_DiagLogRecordsFaultStory verifies that the diag log written
// during a fault can be read back and carries the exception, register
// dump, store write and state transitions.
func TestE2E_DiagLogRecordsFaultStory(t *testing.T) {
	dir := t.TempDir()
	store := nvstore.NewMemStore()
	logPath := filepath.Join(dir, "boot.blog")

	sink, err := diag.NewFileSink(logPath)
	if err != nil {
		t.Fatalf("Failed to create diag sink: %v", err)
	}

	boot := bootOnce(t, store, sink, policy.DefaultConfig())
	if err := boot.registry.Install(services.DispatchService, boot.table); err != nil {
		t.Fatalf("Failed to install dispatch service: %v", err)
	}
	if err := boot.table.Dispatch(exception.PageFault, &exception.Context{
		FaultAddress: 0xfee1dead,
	}); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	sink.Close()

	reader, err := diag.NewReader(logPath)
	if err != nil {
		t.Fatalf("Failed to open diag log: %v", err)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read diag log: %v", err)
	}

	var sawException, sawRegisters, sawStore, sawResetting bool
	for _, e := range events {
		if e.BootID != boot.guard.BootID() {
			t.Errorf("unexpected boot ID %q", e.BootID)
		}
		if e.Exception != nil {
			sawException = true
			if e.Exception.Vector != uint8(exception.PageFault) {
				t.Errorf("expected page fault vector, got %d", e.Exception.Vector)
			}
			if e.Exception.FaultAddress != 0xfee1dead {
				t.Errorf("expected fault address, got %#x", e.Exception.FaultAddress)
			}
		}
		if e.Registers != nil {
			sawRegisters = true
		}
		if e.Store != nil {
			sawStore = true
			if e.Store.Value != byte(nvstore.DisableFlag()) {
				t.Errorf("expected disable flag value, got %#x", e.Store.Value)
			}
		}
		if e.StateChange != nil && e.StateChange.NewState == memprot.StateResetting.String() {
			sawResetting = true
		}
	}

	if !sawException {
		t.Error("expected an exception event in the diag log")
	}
	if !sawRegisters {
		t.Error("expected a register dump in the diag log")
	}
	if !sawStore {
		t.Error("expected a store write event in the diag log")
	}
	if !sawResetting {
		t.Error("expected a transition to RESETTING in the diag log")
	}
}
