// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errcollection

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestErrorCollection(t *testing.T) {
	Convey("When using ErrorCollection", t, func() {
		var errCollection ErrorCollection

		Convey("When no error was passed, GetErrIfAny should return nil", func() {
			So(errCollection.GetErrIfAny(), ShouldBeNil)
			So(errCollection.Len(), ShouldEqual, 0)
		})

		Convey("When nil error was passed, it should be ignored", func() {
			errCollection.Add(nil)
			So(errCollection.GetErrIfAny(), ShouldBeNil)
			So(errCollection.Len(), ShouldEqual, 0)
		})

		Convey("When one error was passed, GetErrIfAny should return its exact message", func() {
			errCollection.Add(errors.New("host 10.0.0.1: prepare failed"))
			So(errCollection.GetErrIfAny(), ShouldNotBeNil)
			So(errCollection.GetErrIfAny().Error(), ShouldEqual, "host 10.0.0.1: prepare failed")
		})

		Convey("When multiple errors were passed, messages should be joined in order", func() {
			errCollection.Add(errors.New("first"))
			errCollection.Add(nil)
			errCollection.Add(errors.New("second"))
			errCollection.Add(errors.New("third"))
			So(errCollection.Len(), ShouldEqual, 3)
			So(errCollection.GetErrIfAny().Error(), ShouldEqual, "first; second; third")
		})
	})
}
