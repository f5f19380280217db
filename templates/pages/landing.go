package pages

import (
	"context"
	"fmt"
	"io"

	"landing_relay_app_go/templates/components"

	"github.com/a-h/templ"
)

// LandingProps is everything the landing page needs from the server
type LandingProps struct {
	Title      string
	SiteKey    string
	SubmitPath string
	// Checkbox selects the v2 widget script instead of Enterprise execute()
	Checkbox bool
	Nonce    string
}

type pageConfig struct {
	SiteKey    string `json:"siteKey"`
	SubmitPath string `json:"submitPath"`
	Checkbox   bool   `json:"checkbox"`
	Action     string `json:"action"`
}

// Landing renders the marketing page with a hero form and a footer form
func Landing(p LandingProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		cfgJSON := components.JSON(pageConfig{
			SiteKey:    p.SiteKey,
			SubmitPath: p.SubmitPath,
			Checkbox:   p.Checkbox,
			Action:     "submit_form",
		})

		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title></head>`+
			`<body data-config="%s">`,
			templ.EscapeString(p.Title), templ.EscapeString(cfgJSON)); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<section class="hero fade-in-section"><h1>Build it right the first time</h1>`+
			`<p>Tell us about your project and we will get back to you within one business day.</p>`); err != nil {
			return err
		}
		if err := components.ContactForm(components.ContactFormProps{
			ID: "contact-hero", Heading: "Get a free estimate", Checkbox: p.Checkbox, SiteKey: p.SiteKey,
		}).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</section><footer class="fade-in-section">`); err != nil {
			return err
		}
		if err := components.ContactForm(components.ContactFormProps{
			ID: "contact-footer", Heading: "Still have questions?", ShowTerms: true, Checkbox: p.Checkbox, SiteKey: p.SiteKey,
		}).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</footer>`); err != nil {
			return err
		}

		if err := recaptchaScript(p).Render(ctx, w); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `<script nonce="%s">%s</script></body></html>`, templ.EscapeString(p.Nonce), formScript); err != nil {
			return err
		}
		return nil
	})
}

func recaptchaScript(p LandingProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if p.SiteKey == "" {
			return nil
		}
		src := "https://www.google.com/recaptcha/enterprise.js?render=" + p.SiteKey
		if p.Checkbox {
			src = "https://www.google.com/recaptcha/api.js?onload=onRecaptchaLoad&render=explicit"
		}
		_, err := fmt.Fprintf(w, `<script nonce="%s" src="%s" async defer></script>`,
			templ.EscapeString(p.Nonce), templ.EscapeString(src))
		return err
	})
}

// formScript wires every .js-contact-form to the submit endpoint. Widget ids
// for checkbox challenges live in a map keyed by form id.
const formScript = `(function(){
var cfg=JSON.parse(document.body.dataset.config);var widgets={};
var emailRe=/^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$/;
function status(f,msg,ok){var s=f.querySelector('.form-status');s.textContent=msg;s.className='form-status '+(ok?'text-green-600':'text-red-600');}
function utm(k){return new URLSearchParams(window.location.search).get(k)||'';}
window.onRecaptchaLoad=function(){document.querySelectorAll('.js-contact-form').forEach(function(f){var el=f.querySelector('.js-recaptcha-widget');if(el){widgets[f.id]=grecaptcha.render(el,{sitekey:cfg.siteKey});}});};
function token(f){
 if(typeof grecaptcha==='undefined'){return Promise.reject(new Error('provider'));}
 if(cfg.checkbox){var t=grecaptcha.getResponse(widgets[f.id]);return t?Promise.resolve(t):Promise.reject(new Error('challenge'));}
 return new Promise(function(res,rej){grecaptcha.enterprise.ready(function(){grecaptcha.enterprise.execute(cfg.siteKey,{action:cfg.action}).then(res,function(){rej(new Error('challenge'));});});});
}
async function submit(e){
 e.preventDefault();var f=e.target,el=f.elements,btn=f.querySelector('button[type="submit"]');
 var name=el['name'].value.trim(),email=el.email.value,phone=el.phone.value.replace(/\D/g,'');
 if(!name){return status(f,'Please enter your name.');}
 if(!emailRe.test(email)){return status(f,'Please enter a valid email address.');}
 if(phone.length!==10){return status(f,'Please enter a valid 10-digit phone number.');}
 if(el.terms_accepted&&!el.terms_accepted.checked){return status(f,'Please accept the terms to continue.');}
 btn.disabled=true;var label=btn.textContent;btn.textContent='Sending...';
 try{
  var tok=await token(f);
  var body={name:name,email:email,phone:el.phone.value,project_description:el.project_description.value||'Not provided',recaptcha_response:tok,
   utm_source:utm('utm_source'),utm_medium:utm('utm_medium'),utm_campaign:utm('utm_campaign'),utm_term:utm('utm_term'),utm_content:utm('utm_content')};
  if(el.terms_accepted){body.terms_accepted=el.terms_accepted.checked;}
  var r=await fetch(cfg.submitPath,{method:'POST',headers:{'Content-Type':'application/json'},body:JSON.stringify(body)});
  if(r.ok){status(f,'Thanks! Your request has been sent successfully.',true);f.reset();if(cfg.checkbox&&widgets[f.id]!==undefined){grecaptcha.reset(widgets[f.id]);}return;}
  var j=null;try{j=await r.json();}catch(_){}
  status(f,j&&j.error?j.error:'Something went wrong. Please try again later.');
 }catch(err){
  status(f,err.message==='provider'?'Security check is unavailable. Please reload the page.':err.message==='challenge'?'Please complete the reCAPTCHA verification.':'Something went wrong. Please try again later.');
 }finally{btn.disabled=false;btn.textContent=label;}
}
document.querySelectorAll('.js-contact-form').forEach(function(f){f.addEventListener('submit',submit);});
})();`
