// SPDX-License-Identifier: MPL-2.0

// Package reconcile ties import discovery to the requirements manifest
// for the pyforge sync pipeline. It decouples CLI-layer orchestration
// from scan-merge-persist sequencing and diagnostic aggregation.
package reconcile
