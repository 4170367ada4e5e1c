/*
 * errors.go, part of goresp.
 *
 * Copyright 2023 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package resp

// Error is the interface for errors that all packages in this library
// implement. The Decorate method allows to add and retrieve info from the
// error, without changing its type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Decorate should add the given string to the "decoration" slice of strings of the error and return the resulting slice. If passed an empty string, it should just return the current value, not add the empty string to the slice. The decoration slice should contain a list of functions in the calling stack, plus, for each function, any relevant information, or nothing.
}

//CError (Concrete Error) is the Error implementation of the resp package.
type CError struct {
	msg  string
	deco []string
}

func (err CError) Error() string { return err.msg }

//Decorate adds the dec string to the decoration slice of strings of the
//error, and returns the resulting slice.
func (err CError) Decorate(dec string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the receiver,
	//it should work, since err.deco is a slice, and hence a pointer itself.
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//errDecorate is a helper function that asserts that the error implements
//resp.Error and decorates it with the caller's name before returning it.
//If used with a non-resp.Error error, it will cause a panic.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}

//PanicMsg is a message used for panics, even though it does satisfy the error
//interface. For errors use CError.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNilMolecule     = PanicMsg("goresp: Nil molecule given")
	ErrNilGrid         = PanicMsg("goresp: Nil ESP grid given")
	ErrAtomOutOfRange  = PanicMsg("goresp: Requested atom out of range")
	ErrShapeMismatch   = PanicMsg("goresp: Dimension mismatch")
	ErrPointOutOfRange = PanicMsg("goresp: Requested grid point out of range")
)
