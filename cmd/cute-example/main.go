// Copyright 2025 The cute Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// cute-example is a small test program demonstrating the harness,
// including how failing, aborting and crashing tests look.
package main

import (
	"bytes"
	"unsafe"

	"github.com/cutekit/cute/cli"
	"github.com/cutekit/cute/harness"
	"github.com/cutekit/cute/register"
)

func testTutorial(t *harness.T) {
	var buf bytes.Buffer

	buf.WriteString("0123456789")
	t.Check(buf.Len() == 10, "len after write")

	buf.Grow(20)
	t.Check(buf.Cap() >= 20, "cap after grow")
}

func testFail(t *harness.T) {
	a, b := 1, 2

	// This condition is designed to fail so you can see how the failed
	// test output looks like.
	t.Check(a+b == 5, "%d + %d == 5", a, b)

	// We may also show more information about the failure.
	if !t.Check(a+b == 5, "a + b == 5") {
		t.Message("a: %d", a)
		t.Message("b: %d", b)
	}

	// Message writes something down only when the preceding condition
	// failed, so we can avoid the 'if'.
	t.Check(a+b == 3, "a + b == 3")
	t.Message("a: %d", a)
	t.Message("b: %d", b)
	t.Dump("operands", []byte{byte(a), byte(b)})
}

func helper(t *harness.T) {
	// Kill the current test with a condition which is never true.
	t.Assert(1 == 2, "1 == 2")

	// This never happens because the test is aborted above.
	t.Check(1+2 == 2+1, "1 + 2 == 2 + 1")
}

func testAbort(t *harness.T) {
	helper(t)

	// This never happens because the test is aborted inside helper.
	t.Check(1*2 == 2*1, "1 * 2 == 2 * 1")
}

func testCrash(t *harness.T) {
	// A wild pointer write. The runtime treats the fault as fatal, so
	// this brings down the whole process, not just the test.
	invalid := (*int)(unsafe.Pointer(uintptr(0xdeadbeef)))

	*invalid = 42
	t.Check(true, "we should never get here, due to the write into the invalid address")
}

func init() {
	register.RegisterTest(&register.Test{Name: "tutorial", Run: testTutorial})
	register.RegisterTest(&register.Test{Name: "fail", Run: testFail})
	register.RegisterTest(&register.Test{Name: "abort", Run: testAbort})
	register.RegisterTest(&register.Test{Name: "crash", Run: testCrash})
}

func main() {
	cli.Execute(cli.New("cute-example"))
}
