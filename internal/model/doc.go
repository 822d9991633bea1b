// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model holds the template values that flow through the compiler:
// the raw Template supplied by a loader, the Annotated pair that stages use
// to attach derived facts, and the Compiled product.
package model
